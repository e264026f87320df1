package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/rack-rental/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(
		attribute.String("order.renter_id", input.RenterID),
		attribute.Int("order.rack_count", input.RackCount),
		attribute.String("order.category", string(input.Category)),
	))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("order.renter_id", input.RenterID),
		slog.Int("order.rack_count", input.RackCount), slog.String("order.category", string(input.Category)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "create", err, "failed to create order", slog.String("order.renter_id", input.RenterID))
	}
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.metrics.recordTransition(ctx, "create", result.Status)
	s.logInfo(ctx, "order created", slog.String("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) ConfirmOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, "confirm", "OrderService.ConfirmOrder", id, s.inner.ConfirmOrder)
}

func (s *Service) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, "cancel", "OrderService.CancelOrder", id, s.inner.CancelOrder)
}

func (s *Service) StartOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, "start", "OrderService.StartOrder", id, s.inner.StartOrder)
}

func (s *Service) FinishOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, "finish", "OrderService.FinishOrder", id, s.inner.FinishOrder)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, "get", err, "failed to load order", slog.String("order.id", id))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) ListOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersByDateRange", trace.WithAttributes(
		attribute.String("range.start", start.Format(time.DateOnly)),
		attribute.String("range.end", end.Format(time.DateOnly)),
	))
	defer span.End()

	result, err := s.inner.ListOrdersByDateRange(ctx, start, end)
	if err != nil {
		return nil, s.handleError(ctx, span, "list", err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) transition(ctx context.Context, op, spanName, id string, call func(context.Context, string) (*domain.Order, error)) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, op+" order", slog.String("order.id", id))
	result, err := call(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, op, err, "failed to "+op+" order", slog.String("order.id", id))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)), attribute.Int64("order.version", result.Version))
	s.metrics.recordTransition(ctx, op, result.Status)
	s.logInfo(ctx, "order "+op+" committed", slog.String("order.id", result.ID),
		slog.String("order.status", string(result.Status)), slog.Int64("order.version", result.Version))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError logs business refusals at info and faults at error. Only faults mark the span as failed.
func (s *Service) handleError(ctx context.Context, span trace.Span, op string, err error, msg string, attrs ...slog.Attr) error {
	kind := application.KindOf(err)
	attrs = append(attrs, slog.String("error.kind", string(kind)), slog.String("error", err.Error()))
	level := slog.LevelError
	switch {
	case application.Business(err):
		level = slog.LevelInfo
	case kind == application.KindConcurrentModification:
		level = slog.LevelWarn
	}
	if span != nil {
		span.SetAttributes(attribute.String("error.kind", string(kind)))
		if level == slog.LevelInfo {
			span.AddEvent("order.rejected")
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	s.metrics.recordFailure(ctx, op, kind)
	return err
}

type serviceMetrics struct {
	transitions metric.Int64Counter
	failures    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of committed order lifecycle operations"))
	failures, _ := m.Int64Counter("orders.service.failures", metric.WithDescription("Number of failed order operations by error kind"))
	return serviceMetrics{transitions: transitions, failures: failures}
}

func (m serviceMetrics) recordTransition(ctx context.Context, op string, status domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("order.status", string(status)),
		))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op string, kind application.Kind) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("error.kind", string(kind)),
		))
	}
}

var _ ports.Service = (*Service)(nil)
