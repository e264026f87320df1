package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrAlreadyExists   = errors.New("order already exists")
	ErrVersionConflict = errors.New("order version conflict")
)

// Repository is the durable order store. Orders are never deleted.
//
// CompareAndSwap persists order only when the stored version still equals expectedVersion and
// returns the stored copy with its version bumped. A stale expectation yields ErrVersionConflict.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	CompareAndSwap(ctx context.Context, expectedVersion int64, order *domain.Order) (*domain.Order, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error)
}
