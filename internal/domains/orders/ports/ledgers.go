package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
)

// ErrRacksUnavailable is the inventory ledger refusing a grant because a rack is no longer free.
var ErrRacksUnavailable = errors.New("racks are no longer available")

// Assignment names the racks granted to (or returned by) an order.
type Assignment struct {
	OrderID  string
	RenterID string
	RackIDs  []string
}

// InventoryLedger is the outbound contract with the place/rack ledger.
//
// Assign grants every rack or none. Release frees only racks still held by the assignment's order,
// so repeating it is harmless.
type InventoryLedger interface {
	QueryFree(ctx context.Context, category domain.Category) ([]string, error)
	Assign(ctx context.Context, assignment Assignment) error
	Release(ctx context.Context, assignment Assignment) error
}

// Payment is the slice of a payment record the orchestrator needs.
type Payment struct {
	ID      string
	OrderID string
	PayerID string
	Amount  decimal.Decimal
	Date    time.Time
}

// PaymentLedger is the outbound contract with the payment ledger. An unknown order yields an empty list.
type PaymentLedger interface {
	QueryByOrder(ctx context.Context, orderID string) ([]Payment, error)
}
