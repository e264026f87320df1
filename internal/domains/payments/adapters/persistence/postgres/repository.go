package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
	"github.com/Apurer/rack-rental/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists payments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type paymentRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:32"`
	OrderID   string          `gorm:"column:order_id;index"`
	PayerID   string          `gorm:"column:payer_id;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Date      time.Time       `gorm:"column:date;type:date"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (paymentRecord) TableName() string { return "payments" }

func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	record := paymentRecord{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		PayerID:   payment.PayerID,
		Amount:    payment.Amount,
		Date:      domain.DateOf(payment.Date),
		CreatedAt: payment.CreatedAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAlreadyExists
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&paymentRecord{})
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.PayerID != "" {
		query = query.Where("payer_id = ?", filter.PayerID)
	}
	var records []paymentRecord
	if err := query.Order("date, id").Find(&records).Error; err != nil {
		return nil, err
	}
	payments := make([]*domain.Payment, 0, len(records))
	for i := range records {
		payments = append(payments, records[i].toDomain())
	}
	return payments, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func (r paymentRecord) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:        r.ID,
		OrderID:   r.OrderID,
		PayerID:   r.PayerID,
		Amount:    r.Amount,
		Date:      domain.DateOf(r.Date),
		CreatedAt: r.CreatedAt.UTC(),
	}
}
