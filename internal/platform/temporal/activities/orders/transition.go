package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

// TransitionActivityName applies one lifecycle transition through the orchestrator.
const TransitionActivityName = "orders.activities.Transition"

// TransitionInput names the order and the transition to apply.
type TransitionInput struct {
	OrderID    string
	Transition ports.Transition
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// Transition runs the orchestrator operation. Failures are returned as application errors typed with the
// error kind; only retryable kinds may be retried by the activity policy.
func (a *Activities) Transition(ctx context.Context, input TransitionInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order transition activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order transition activity not initialized")
	}
	logger.Info("Transition activity started", "orderId", input.OrderID, "transition", string(input.Transition))
	order, err := input.Transition.Apply(ctx, a.service, input.OrderID)
	if err != nil {
		kind := application.KindOf(err)
		if application.Business(err) {
			logger.Info("Transition activity refused", "orderId", input.OrderID, "kind", string(kind))
		} else {
			logger.Error("Transition activity failed", "orderId", input.OrderID, "kind", string(kind), "error", err)
		}
		return nil, ToApplicationError(err)
	}
	logger.Info("Transition activity completed", "orderId", order.ID, "status", string(order.Status))
	return order, nil
}

// ToApplicationError tags err with its kind so callers of the workflow can rebuild the typed error.
func ToApplicationError(err error) error {
	if err == nil {
		return nil
	}
	kind := application.KindOf(err)
	switch {
	case kind == application.KindInternal:
		return err
	case application.Retryable(err):
		return temporal.NewApplicationErrorWithCause(err.Error(), string(kind), err)
	default:
		return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
	}
}
