package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
)

// Transition names a lifecycle operation applied to an existing order.
type Transition string

const (
	TransitionConfirm Transition = "confirm"
	TransitionCancel  Transition = "cancel"
	TransitionStart   Transition = "start"
	TransitionFinish  Transition = "finish"
)

// Apply runs the transition on service.
func (t Transition) Apply(ctx context.Context, service Service, id string) (*domain.Order, error) {
	switch t {
	case TransitionConfirm:
		return service.ConfirmOrder(ctx, id)
	case TransitionCancel:
		return service.CancelOrder(ctx, id)
	case TransitionStart:
		return service.StartOrder(ctx, id)
	case TransitionFinish:
		return service.FinishOrder(ctx, id)
	default:
		return nil, fmt.Errorf("unknown order transition %q", string(t))
	}
}

// WorkflowOrchestrator runs lifecycle transitions, durably when a workflow engine is configured.
type WorkflowOrchestrator interface {
	Transition(ctx context.Context, id string, transition Transition) (*domain.Order, error)
}
