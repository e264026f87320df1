package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Schema lives in internal/platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID            string         `gorm:"primaryKey;column:id;size:32"`
	RenterID      string         `gorm:"column:renter_id;index"`
	StartDate     time.Time      `gorm:"column:start_date;type:date;index:idx_orders_period"`
	EndDate       time.Time      `gorm:"column:end_date;type:date;index:idx_orders_period"`
	RackCount     int            `gorm:"column:rack_count"`
	Category      string         `gorm:"column:category;type:varchar(32)"`
	AssignedRacks pq.StringArray `gorm:"column:assigned_racks;type:text[]"`
	Status        string         `gorm:"column:status;type:varchar(32);index"`
	Version       int64          `gorm:"column:version;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order at version 1.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.Version = 1
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAlreadyExists
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// CompareAndSwap updates the row only while its version still matches expectedVersion.
func (r *Repository) CompareAndSwap(ctx context.Context, expectedVersion int64, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Updates(map[string]any{
			"renter_id":      record.RenterID,
			"start_date":     record.StartDate,
			"end_date":       record.EndDate,
			"rack_count":     record.RackCount,
			"category":       record.Category,
			"assigned_racks": record.AssignedRacks,
			"status":         record.Status,
			"version":        expectedVersion + 1,
			"updated_at":     record.UpdatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, record.ID)
}

// ListByDateRange returns orders whose rental period overlaps [start, end].
func (r *Repository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", domain.DateOf(end), domain.DateOf(start)).
		Order("start_date, id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:            order.ID,
		RenterID:      order.RenterID,
		StartDate:     domain.DateOf(order.StartDate),
		EndDate:       domain.DateOf(order.EndDate),
		RackCount:     order.RackCount,
		Category:      string(order.Category),
		AssignedRacks: pq.StringArray(order.AssignedRacks),
		Status:        string(order.Status),
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	var racks []string
	if len(r.AssignedRacks) > 0 {
		racks = append([]string(nil), r.AssignedRacks...)
	}
	return &domain.Order{
		ID:            r.ID,
		RenterID:      r.RenterID,
		StartDate:     domain.DateOf(r.StartDate),
		EndDate:       domain.DateOf(r.EndDate),
		RackCount:     r.RackCount,
		Category:      domain.Category(r.Category),
		AssignedRacks: racks,
		Status:        domain.Status(r.Status),
		Version:       r.Version,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}
