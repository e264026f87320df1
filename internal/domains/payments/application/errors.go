package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid payment input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrderID) ||
		errors.Is(err, domain.ErrEmptyPayerID) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrMissingDate) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
