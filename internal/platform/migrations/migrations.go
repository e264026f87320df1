package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&placeRecord{},
		&paymentRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
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

// Place schema mirrors the inventory Postgres adapter.
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

// Payment schema mirrors the payments Postgres adapter.
type paymentRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:32"`
	OrderID   string          `gorm:"column:order_id;index"`
	PayerID   string          `gorm:"column:payer_id;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Date      time.Time       `gorm:"column:date;type:date"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (paymentRecord) TableName() string { return "payments" }
