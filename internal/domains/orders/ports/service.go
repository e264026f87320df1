package ports

import (
	"context"
	"time"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
)

// CreateOrderInput carries the renter's request for a new rental.
type CreateOrderInput struct {
	RenterID  string
	RackCount int
	Category  domain.Category
	StartDate time.Time
	EndDate   time.Time
}

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	ConfirmOrder(ctx context.Context, id string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
	StartOrder(ctx context.Context, id string) (*domain.Order, error)
	FinishOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error)
}
