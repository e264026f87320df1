package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
)

var ErrAlreadyExists = errors.New("payment already exists")

// Filter narrows List. Zero fields match everything.
type Filter struct {
	OrderID string
	PayerID string
}

// Repository stores payments ordered by date then id.
type Repository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	List(ctx context.Context, filter Filter) ([]*domain.Payment, error)
}
