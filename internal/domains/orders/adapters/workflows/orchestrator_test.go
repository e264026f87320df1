package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.temporal.io/api/serviceerror"

	"github.com/Apurer/rack-rental/internal/domains/orders/adapters/memory"
	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/rack-rental/internal/platform/temporal/activities/orders"
)

func TestFromWorkflowError_RestoresKinds(t *testing.T) {
	for _, sentinel := range []error{
		application.ErrInvalidTransition,
		application.ErrInsufficientInventory,
		application.ErrPaymentRequired,
		application.ErrOrderNotFound,
		application.ErrCollaboratorUnavailable,
		application.ErrConcurrentModification,
	} {
		remote := orderactivities.ToApplicationError(fmt.Errorf("%w: detail", sentinel))
		restored := FromWorkflowError(fmt.Errorf("workflow execution error: %w", remote))
		require.ErrorIs(t, restored, sentinel)
		assert.Equal(t, application.KindOf(sentinel), application.KindOf(restored))
	}
}

func TestFromWorkflowError_InternalStaysInternal(t *testing.T) {
	err := FromWorkflowError(orderactivities.ToApplicationError(errors.New("disk full")))
	assert.Equal(t, application.KindInternal, application.KindOf(err))
}

func TestFromWorkflowError_EngineDownIsUnavailable(t *testing.T) {
	err := FromWorkflowError(serviceerror.NewUnavailable("connection refused"))
	require.ErrorIs(t, err, application.ErrCollaboratorUnavailable)
	assert.True(t, application.Retryable(err))
}

func TestInlineOrderWorkflows_UnknownOrder(t *testing.T) {
	svc := application.NewService(memory.NewRepository(), nil, nil)
	_, err := NewInlineOrderWorkflows(svc).Transition(context.Background(), "ord-missing", ports.TransitionStart)
	require.ErrorIs(t, err, application.ErrOrderNotFound)
}

func TestWorkflowTraceComponent(t *testing.T) {
	assert.Contains(t, workflowTraceComponent(context.Background()), "fallback-")

	provider := trace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), workflowTraceComponent(ctx))
}
