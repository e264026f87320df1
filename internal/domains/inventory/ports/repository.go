package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("place not found")

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Type     domain.Type
	Status   domain.Status
	TenantID string
}

// MutateFunc receives the places named in a Mutate call, in the requested order, and edits them in place.
type MutateFunc func(places []*domain.Place) error

// Repository stores places. List returns places ordered by id, which is the ledger order callers rely on
// when picking candidates.
//
// Mutate loads every requested place under an exclusive lock, applies fn and persists all of them only if
// fn returns nil. A missing id fails the whole call with ErrNotFound.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]*domain.Place, error)
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	Save(ctx context.Context, place *domain.Place) (*domain.Place, error)
	Mutate(ctx context.Context, ids []string, fn MutateFunc) ([]*domain.Place, error)
}
