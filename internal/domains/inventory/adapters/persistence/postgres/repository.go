package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists places in PostgreSQL. Mutate locks the affected rows with SELECT ... FOR UPDATE.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type placeRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:32"`
	SectionCode string          `gorm:"column:section_code;size:16"`
	Number      int             `gorm:"column:number"`
	Type        string          `gorm:"column:type;type:varchar(32);index:idx_places_type_status"`
	Status      string          `gorm:"column:status;type:varchar(16);index:idx_places_type_status"`
	PricePerDay decimal.Decimal `gorm:"column:price_per_day;type:numeric(12,2)"`
	Width       int             `gorm:"column:width"`
	Height      int             `gorm:"column:height"`
	Depth       int             `gorm:"column:depth"`
	TenantID    *string         `gorm:"column:tenant_id;index"`
	OrderID     *string         `gorm:"column:order_id;index"`
}

func (placeRecord) TableName() string { return "places" }

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Place, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&placeRecord{})
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	var records []placeRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	places := make([]*domain.Place, 0, len(records))
	for i := range records {
		places = append(places, records[i].toDomain())
	}
	return places, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record placeRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts a place.
func (r *Repository) Save(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if place == nil {
		return nil, errors.New("place is nil")
	}
	if err := place.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(place)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Mutate(ctx context.Context, ids []string, fn ports.MutateFunc) ([]*domain.Place, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var result []*domain.Place
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var records []placeRecord
		// Rows are locked in id order so overlapping grants cannot deadlock.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).
			Order("id").
			Find(&records).Error; err != nil {
			return err
		}
		byID := make(map[string]*domain.Place, len(records))
		for i := range records {
			byID[records[i].ID] = records[i].toDomain()
		}
		working := make([]*domain.Place, 0, len(ids))
		for _, id := range ids {
			place, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: %s", ports.ErrNotFound, id)
			}
			working = append(working, place)
		}
		if err := fn(working); err != nil {
			return err
		}
		for _, place := range working {
			if err := place.Validate(); err != nil {
				return err
			}
			record := toRecord(place)
			if err := tx.Model(&placeRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
				"status":    record.Status,
				"tenant_id": record.TenantID,
				"order_id":  record.OrderID,
			}).Error; err != nil {
				return err
			}
		}
		result = working
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres place repository not configured")
	}
	return nil
}

func toRecord(place *domain.Place) placeRecord {
	return placeRecord{
		ID:          place.ID,
		SectionCode: place.SectionCode,
		Number:      place.Number,
		Type:        string(place.Type),
		Status:      string(place.Status),
		PricePerDay: place.PricePerDay,
		Width:       place.Dimensions.Width,
		Height:      place.Dimensions.Height,
		Depth:       place.Dimensions.Depth,
		TenantID:    optional(place.TenantID),
		OrderID:     optional(place.OrderID),
	}
}

func (r placeRecord) toDomain() *domain.Place {
	place := &domain.Place{
		ID:          r.ID,
		SectionCode: r.SectionCode,
		Number:      r.Number,
		Type:        domain.Type(r.Type),
		Status:      domain.Status(r.Status),
		PricePerDay: r.PricePerDay,
		Dimensions:  domain.Dimensions{Width: r.Width, Height: r.Height, Depth: r.Depth},
	}
	if r.TenantID != nil {
		place.TenantID = *r.TenantID
	}
	if r.OrderID != nil {
		place.OrderID = *r.OrderID
	}
	return place
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
