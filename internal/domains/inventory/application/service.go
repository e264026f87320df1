package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

var (
	errNoPlaces       = errors.New("at least one place id is required")
	errDuplicatePlace = errors.New("place ids must be unique")
)

// Service implements the inventory ledger on top of a place repository.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

func (s *Service) ListFree(ctx context.Context) ([]*domain.Place, error) {
	return s.repo.List(ctx, ports.Filter{Status: domain.StatusFree})
}

func (s *Service) ListFreeByType(ctx context.Context, placeType domain.Type) ([]*domain.Place, error) {
	if !placeType.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidType)
	}
	return s.repo.List(ctx, ports.Filter{Type: placeType, Status: domain.StatusFree})
}

func (s *Service) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Place, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyTenant)
	}
	return s.repo.List(ctx, ports.Filter{TenantID: tenantID})
}

func (s *Service) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	place, err := s.repo.GetByID(ctx, id)
	return place, mapError(err)
}

// Give occupies every requested place or none of them.
func (s *Service) Give(ctx context.Context, input ports.GiveInput) ([]*domain.Place, error) {
	ids, err := normalizeIDs(input.PlaceIDs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.TenantID) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyTenant)
	}
	places, err := s.repo.Mutate(ctx, ids, func(places []*domain.Place) error {
		for _, place := range places {
			if err := place.Occupy(input.TenantID, input.OrderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "places given",
		slog.Any("place.ids", ids),
		slog.String("tenant.id", input.TenantID),
		slog.String("order.id", input.OrderID),
	)
	return places, nil
}

// Free releases the requested places. Places already free, or held by an order other than input.OrderID,
// are left untouched so a repeated release is harmless.
func (s *Service) Free(ctx context.Context, input ports.FreeInput) ([]*domain.Place, error) {
	ids, err := normalizeIDs(input.PlaceIDs)
	if err != nil {
		return nil, err
	}
	orderID := strings.TrimSpace(input.OrderID)
	var released []string
	places, err := s.repo.Mutate(ctx, ids, func(places []*domain.Place) error {
		released = released[:0]
		for _, place := range places {
			if place.Vacate(orderID) {
				released = append(released, place.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "places freed",
		slog.Any("place.ids", released),
		slog.Int("skipped", len(ids)-len(released)),
		slog.String("order.id", orderID),
	)
	return places, nil
}

func normalizeIDs(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errNoPlaces)
	}
	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyPlaceID)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidInput, errDuplicatePlace, id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
