// Package inventory adapts the inventory ledger, remote or in-process, to the orders port.
package inventory

import (
	"context"
	"errors"
	"fmt"

	inventoryclient "github.com/Apurer/rack-rental/internal/clients/http/inventory"
	inventoryapp "github.com/Apurer/rack-rental/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/rack-rental/internal/domains/inventory/ports"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

var (
	_ ports.InventoryLedger = (*HTTPLedger)(nil)
	_ ports.InventoryLedger = (*LocalLedger)(nil)
)

// HTTPLedger talks to the inventory ledger service.
type HTTPLedger struct {
	client *inventoryclient.Client
}

func NewHTTPLedger(client *inventoryclient.Client) *HTTPLedger {
	return &HTTPLedger{client: client}
}

func (l *HTTPLedger) QueryFree(ctx context.Context, category domain.Category) ([]string, error) {
	places, err := l.client.FreePlacesByType(ctx, string(category))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(places))
	for _, place := range places {
		ids = append(ids, place.RackID)
	}
	return ids, nil
}

func (l *HTTPLedger) Assign(ctx context.Context, assignment ports.Assignment) error {
	err := l.client.GivePlaces(ctx, inventoryclient.GiveRequest{
		PlaceIDs: assignment.RackIDs,
		UserID:   assignment.RenterID,
		OrderID:  assignment.OrderID,
	})
	if errors.Is(err, inventoryclient.ErrPlacesUnavailable) {
		return fmt.Errorf("%w: %w", ports.ErrRacksUnavailable, err)
	}
	return err
}

func (l *HTTPLedger) Release(ctx context.Context, assignment ports.Assignment) error {
	if len(assignment.RackIDs) == 0 {
		return nil
	}
	return l.client.FreePlaces(ctx, inventoryclient.FreeRequest{
		PlaceIDs: assignment.RackIDs,
		OrderID:  assignment.OrderID,
	})
}

// LocalLedger calls an inventory service running in the same process.
type LocalLedger struct {
	service inventoryports.Service
}

func NewLocalLedger(service inventoryports.Service) *LocalLedger {
	return &LocalLedger{service: service}
}

func (l *LocalLedger) QueryFree(ctx context.Context, category domain.Category) ([]string, error) {
	places, err := l.service.ListFreeByType(ctx, inventorydomain.Type(category))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(places))
	for _, place := range places {
		ids = append(ids, place.ID)
	}
	return ids, nil
}

func (l *LocalLedger) Assign(ctx context.Context, assignment ports.Assignment) error {
	_, err := l.service.Give(ctx, inventoryports.GiveInput{
		PlaceIDs: assignment.RackIDs,
		TenantID: assignment.RenterID,
		OrderID:  assignment.OrderID,
	})
	if errors.Is(err, inventoryapp.ErrPlacesUnavailable) || errors.Is(err, inventoryapp.ErrPlaceNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrRacksUnavailable, err)
	}
	return err
}

func (l *LocalLedger) Release(ctx context.Context, assignment ports.Assignment) error {
	if len(assignment.RackIDs) == 0 {
		return nil
	}
	_, err := l.service.Free(ctx, inventoryports.FreeInput{
		PlaceIDs: assignment.RackIDs,
		OrderID:  assignment.OrderID,
	})
	return err
}
