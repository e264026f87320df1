package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/rack-rental/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/rack-rental/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows runs lifecycle transitions as Temporal workflows.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderLifecycleTaskQueue}
}

// Transition starts the workflow and waits for its result.
func (o *TemporalOrderWorkflows) Transition(ctx context.Context, id string, transition ports.Transition) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-%s-%s-%s", transition, id, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderTransitionWorkflowName,
		orderworkflows.OrderTransitionWorkflowInput{
			Command: orderactivities.TransitionInput{OrderID: id, Transition: transition},
			TraceID: traceComponent,
		},
	)
	if err != nil {
		return nil, FromWorkflowError(err)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, FromWorkflowError(err)
	}
	return &order, nil
}

// FromWorkflowError rebuilds the typed orchestrator error from a workflow failure.
func FromWorkflowError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		if sentinel := application.SentinelFor(application.Kind(appErr.Type())); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, appErr.Message())
		}
	}
	var unavailable *serviceerror.Unavailable
	if errors.As(err, &unavailable) {
		return fmt.Errorf("%w: workflow engine: %w", application.ErrCollaboratorUnavailable, err)
	}
	return err
}

// InlineOrderWorkflows applies transitions directly on the service, for tests or when Temporal is off.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) Transition(ctx context.Context, id string, transition ports.Transition) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return transition.Apply(ctx, o.service, id)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
