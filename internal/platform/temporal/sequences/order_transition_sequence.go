package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/rack-rental/internal/platform/temporal/activities/orders"
)

// RunOrderTransitionSequence executes the transition activity under the lifecycle retry policy.
func RunOrderTransitionSequence(ctx workflow.Context, input orderactivities.TransitionInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order transition sequence started", "orderId", input.OrderID, "transition", string(input.Transition))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.TransitionActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Warn("order transition sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order transition sequence completed", "orderId", order.ID, "status", string(order.Status))
	return &order, nil
}
