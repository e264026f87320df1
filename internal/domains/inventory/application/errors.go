package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput      = errors.New("invalid place request")
	ErrPlaceNotFound     = errors.New("place not found")
	ErrPlacesUnavailable = errors.New("places are not available")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPlaceNotFound), errors.Is(err, ErrPlacesUnavailable):
		return err
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrPlaceNotFound, err)
	case errors.Is(err, domain.ErrPlaceOccupied):
		return fmt.Errorf("%w: %w", ErrPlacesUnavailable, err)
	case errors.Is(err, domain.ErrEmptyPlaceID),
		errors.Is(err, domain.ErrEmptyTenant),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrInvalidDimensions),
		errors.Is(err, domain.ErrTenantMismatch):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
