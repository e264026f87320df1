package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

// Kind is the stable classification every orchestrator error maps to.
type Kind string

const (
	KindInvalidInput            Kind = "invalid_input"
	KindInvalidTransition       Kind = "invalid_transition"
	KindInsufficientInventory   Kind = "insufficient_inventory"
	KindPaymentRequired         Kind = "payment_required"
	KindOrderNotFound           Kind = "order_not_found"
	KindCollaboratorUnavailable Kind = "collaborator_unavailable"
	KindConcurrentModification  Kind = "concurrent_modification"
	KindInternal                Kind = "internal"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput            = errors.New("invalid order input")
	ErrInvalidTransition       = errors.New("invalid order transition")
	ErrInsufficientInventory   = errors.New("insufficient inventory")
	ErrPaymentRequired         = errors.New("payment required")
	ErrOrderNotFound           = errors.New("order not found")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrConcurrentModification  = errors.New("concurrent modification")
)

var kindBySentinel = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrInsufficientInventory, KindInsufficientInventory},
	{ErrPaymentRequired, KindPaymentRequired},
	{ErrOrderNotFound, KindOrderNotFound},
	{ErrCollaboratorUnavailable, KindCollaboratorUnavailable},
	{ErrConcurrentModification, KindConcurrentModification},
}

// KindOf classifies err. Errors outside the taxonomy are KindInternal; nil yields "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, entry := range kindBySentinel {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindInternal
}

// Retryable reports whether repeating the same call may succeed without the caller changing anything.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindCollaboratorUnavailable, KindConcurrentModification:
		return true
	default:
		return false
	}
}

// Business reports whether err is an expected refusal rather than a fault.
func Business(err error) bool {
	switch KindOf(err) {
	case KindInvalidInput, KindInvalidTransition, KindInsufficientInventory, KindPaymentRequired, KindOrderNotFound:
		return true
	default:
		return false
	}
}

// SentinelFor returns the sentinel error for kind, or nil for kinds without one.
func SentinelFor(kind Kind) error {
	for _, entry := range kindBySentinel {
		if entry.kind == kind {
			return entry.err
		}
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	case errors.Is(err, ports.ErrVersionConflict):
		return fmt.Errorf("%w: %w", ErrConcurrentModification, err)
	case errors.Is(err, domain.ErrEmptyOrderID),
		errors.Is(err, domain.ErrEmptyRenter),
		errors.Is(err, domain.ErrInvalidRackCount),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrMissingDates):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
