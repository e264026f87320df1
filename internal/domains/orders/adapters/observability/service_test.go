package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

type stubService struct {
	order *domain.Order
	err   error
}

func (s stubService) CreateOrder(context.Context, ports.CreateOrderInput) (*domain.Order, error) {
	return s.order, s.err
}
func (s stubService) ConfirmOrder(context.Context, string) (*domain.Order, error) { return s.order, s.err }
func (s stubService) CancelOrder(context.Context, string) (*domain.Order, error) { return s.order, s.err }
func (s stubService) StartOrder(context.Context, string) (*domain.Order, error) { return s.order, s.err }
func (s stubService) FinishOrder(context.Context, string) (*domain.Order, error) { return s.order, s.err }
func (s stubService) GetOrder(context.Context, string) (*domain.Order, error) { return s.order, s.err }
func (s stubService) ListOrdersByDateRange(context.Context, time.Time, time.Time) ([]*domain.Order, error) {
	return []*domain.Order{s.order}, s.err
}

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness(inner ports.Service) harness {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	logs := &bytes.Buffer{}
	svc := New(inner,
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer(tracerName)),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter(tracerName)),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_RecordsCommittedTransition(t *testing.T) {
	h := newHarness(stubService{order: &domain.Order{ID: "ord00000001", Status: domain.StatusConfirmed, Version: 2}})

	order, err := h.svc.ConfirmOrder(context.Background(), "ord00000001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "OrderService.ConfirmOrder", ended[0].Name())
	assert.Equal(t, int64(1), h.counter(t, "orders.service.transitions"))
}

func TestService_BusinessRefusalIsNotASpanError(t *testing.T) {
	h := newHarness(stubService{err: application.ErrPaymentRequired})

	_, err := h.svc.ConfirmOrder(context.Background(), "ord00000001")
	require.ErrorIs(t, err, application.ErrPaymentRequired)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, h.logs.String(), `"level":"INFO"`)
	assert.Contains(t, h.logs.String(), `"error.kind":"payment_required"`)
	assert.Equal(t, int64(1), h.counter(t, "orders.service.failures"))
}

func TestService_CollaboratorFailureIsAnError(t *testing.T) {
	h := newHarness(stubService{err: application.ErrCollaboratorUnavailable})

	_, err := h.svc.CancelOrder(context.Background(), "ord00000001")
	require.ErrorIs(t, err, application.ErrCollaboratorUnavailable)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, h.logs.String(), `"level":"ERROR"`)
}
