package ports

import (
	"context"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
)

// GiveInput hands places to a tenant for an order.
type GiveInput struct {
	PlaceIDs []string
	TenantID string
	OrderID  string
}

// FreeInput returns places. A non-empty OrderID restricts the release to places that order holds.
type FreeInput struct {
	PlaceIDs []string
	OrderID  string
}

// Service exposes the inventory ledger use cases.
type Service interface {
	ListFree(ctx context.Context) ([]*domain.Place, error)
	ListFreeByType(ctx context.Context, placeType domain.Type) ([]*domain.Place, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Place, error)
	GetPlace(ctx context.Context, id string) (*domain.Place, error)
	Give(ctx context.Context, input GiveInput) ([]*domain.Place, error)
	Free(ctx context.Context, input FreeInput) ([]*domain.Place, error)
}
