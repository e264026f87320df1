package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/rack-rental/internal/platform/temporal/activities/orders"
	"github.com/Apurer/rack-rental/internal/platform/temporal/sequences"
)

const (
	// OrderTransitionWorkflowName is the public identifier for registering the workflow.
	OrderTransitionWorkflowName = "orders.workflows.Transition"
	// OrderLifecycleTaskQueue is the queue consumed by the worker processing order workflows.
	OrderLifecycleTaskQueue = "ORDER_LIFECYCLE"
)

// OrderTransitionWorkflowInput carries the transition plus the caller's trace id for log correlation.
type OrderTransitionWorkflowInput struct {
	Command orderactivities.TransitionInput
	TraceID string
}

// OrderTransitionWorkflow applies a single lifecycle transition to an order.
func OrderTransitionWorkflow(ctx workflow.Context, input OrderTransitionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("OrderTransitionWorkflow started", withTraceID(input.TraceID, "orderId", orderID, "transition", string(input.Command.Transition))...)
	order, err := sequences.RunOrderTransitionSequence(ctx, input.Command)
	if err != nil {
		logger.Warn("OrderTransitionWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderTransitionWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "status", string(order.Status))...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
