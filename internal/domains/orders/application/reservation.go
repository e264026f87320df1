package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

func (s *Service) queryFree(ctx context.Context, category domain.Category) ([]string, error) {
	result := Call(ctx, s.inventoryCollaborator(), "query_free", func(ctx context.Context) ([]string, error) {
		return s.inventory.QueryFree(ctx, category)
	})
	return result.Value, result.Err
}

func (s *Service) requirePayment(ctx context.Context, orderID string) error {
	result := Call(ctx, s.paymentCollaborator(), "query_by_order", func(ctx context.Context) ([]ports.Payment, error) {
		return s.payments.QueryByOrder(ctx, orderID)
	})
	if result.Err != nil {
		return result.Err
	}
	if len(result.Value) == 0 {
		if result.Degraded {
			return fmt.Errorf("%w: payment ledger unavailable for order %s", ErrPaymentRequired, orderID)
		}
		return fmt.Errorf("%w: no payment recorded for order %s", ErrPaymentRequired, orderID)
	}
	return nil
}

// reserve checks the free list, then asks the ledger to grant the first rackCount racks in ledger order.
// The ledger's grant is the sole arbiter of who wins a contested rack.
func (s *Service) reserve(ctx context.Context, order *domain.Order) (ports.Assignment, error) {
	free, err := s.queryFree(ctx, order.Category)
	if err != nil {
		return ports.Assignment{}, err
	}
	if len(free) < order.RackCount {
		return ports.Assignment{}, fmt.Errorf("%w: %d %s racks requested, %d free", ErrInsufficientInventory, order.RackCount, order.Category, len(free))
	}

	assignment := ports.Assignment{
		OrderID:  order.ID,
		RenterID: order.RenterID,
		RackIDs:  append([]string(nil), free[:order.RackCount]...),
	}
	result := Do(ctx, s.inventoryCollaborator(), "assign", func(ctx context.Context) error {
		return s.inventory.Assign(ctx, assignment)
	})
	switch {
	case result.Err == nil:
		return assignment, nil
	case errors.Is(result.Err, ports.ErrRacksUnavailable):
		return ports.Assignment{}, fmt.Errorf("%w: %w", ErrInsufficientInventory, result.Err)
	default:
		// The grant may have landed before the failure surfaced; the release only touches racks held by this order.
		s.release(context.WithoutCancel(ctx), assignment, "assign compensation")
		return ports.Assignment{}, result.Err
	}
}

// release hands racks back to the ledger. Failures are logged and never reach the caller.
func (s *Service) release(ctx context.Context, assignment ports.Assignment, reason string) {
	if len(assignment.RackIDs) == 0 {
		return
	}
	result := Do(ctx, s.inventoryCollaborator(), "release", func(ctx context.Context) error {
		return s.inventory.Release(ctx, assignment)
	})
	if result.Err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "rack release failed, inventory needs reconciliation",
			slog.String("order.id", assignment.OrderID),
			slog.Any("racks", assignment.RackIDs),
			slog.String("reason", reason),
			slog.String("error", result.Err.Error()))
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "racks released",
		slog.String("order.id", assignment.OrderID),
		slog.Any("racks", assignment.RackIDs),
		slog.String("reason", reason))
}
