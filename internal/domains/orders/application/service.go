package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

const (
	DefaultCollaboratorTimeout = 3 * time.Second
	DefaultMaxAttempts         = 5
	maxIDAttempts              = 3
)

// Service orchestrates the rental order lifecycle across the order store and both ledgers.
type Service struct {
	repo        ports.Repository
	inventory   ports.InventoryLedger
	payments    ports.PaymentLedger
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	timeout     time.Duration
	maxAttempts int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithCollaboratorTimeout bounds every ledger call. Non-positive values keep the default.
func WithCollaboratorTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithMaxAttempts sets the compare-and-swap retry budget per operation.
func WithMaxAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

func NewService(repo ports.Repository, inventory ports.InventoryLedger, payments ports.PaymentLedger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		inventory:   inventory,
		payments:    payments,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       NewOrderID,
		timeout:     DefaultCollaboratorTimeout,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) inventoryCollaborator() Collaborator {
	return Collaborator{
		Name:        "inventory-ledger",
		Policy:      FailFast,
		Timeout:     s.timeout,
		Passthrough: []error{ports.ErrRacksUnavailable},
		Logger:      s.logger,
	}
}

func (s *Service) paymentCollaborator() Collaborator {
	return Collaborator{
		Name:    "payment-ledger",
		Policy:  FailSilent,
		Timeout: s.timeout,
		Logger:  s.logger,
	}
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(s.newID(), input.RenterID, input.RackCount, input.Category, input.StartDate, input.EndDate, s.now())
	if err != nil {
		return nil, mapError(err)
	}

	// Advisory only: nothing is held until confirm.
	free, err := s.queryFree(ctx, order.Category)
	if err != nil {
		return nil, err
	}
	if len(free) < order.RackCount {
		return nil, fmt.Errorf("%w: %d %s racks requested, %d free", ErrInsufficientInventory, order.RackCount, order.Category, len(free))
	}

	for attempt := 1; ; attempt++ {
		saved, err := s.repo.Create(ctx, order)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, ports.ErrAlreadyExists) || attempt == maxIDAttempts {
			return nil, mapError(err)
		}
		order.ID = s.newID()
	}
}

func (s *Service) ConfirmOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.mutate(ctx, id, func(ctx context.Context, order *domain.Order) (func(context.Context), error) {
		if !domain.CanTransition(order.Status, domain.StatusConfirmed) {
			return nil, fmt.Errorf("%w: cannot confirm order in %s", ErrInvalidTransition, order.Status)
		}
		if err := s.requirePayment(ctx, order.ID); err != nil {
			return nil, err
		}
		assignment, err := s.reserve(ctx, order)
		if err != nil {
			return nil, err
		}
		undo := func(ctx context.Context) { s.release(ctx, assignment, "confirm rollback") }
		if err := order.Confirm(assignment.RackIDs, s.now()); err != nil {
			undo(context.WithoutCancel(ctx))
			return nil, err
		}
		return undo, nil
	})
}

func (s *Service) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	var assignment ports.Assignment
	saved, err := s.mutate(ctx, id, func(_ context.Context, order *domain.Order) (func(context.Context), error) {
		racks, err := order.Cancel(s.now())
		if err != nil {
			return nil, err
		}
		assignment = ports.Assignment{OrderID: order.ID, RenterID: order.RenterID, RackIDs: racks}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	// The status is already committed; the release must outlive the caller.
	s.release(context.WithoutCancel(ctx), assignment, "cancel")
	return saved, nil
}

func (s *Service) StartOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.mutate(ctx, id, func(_ context.Context, order *domain.Order) (func(context.Context), error) {
		return nil, order.Start(s.now())
	})
}

func (s *Service) FinishOrder(ctx context.Context, id string) (*domain.Order, error) {
	var assignment ports.Assignment
	saved, err := s.mutate(ctx, id, func(_ context.Context, order *domain.Order) (func(context.Context), error) {
		racks, err := order.Finish(s.now())
		if err != nil {
			return nil, err
		}
		assignment = ports.Assignment{OrderID: order.ID, RenterID: order.RenterID, RackIDs: racks}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	s.release(context.WithoutCancel(ctx), assignment, "finish")
	return saved, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) ListOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrMissingDates)
	}
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidDateRange)
	}
	orders, err := s.repo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// mutation applies a transition to a freshly loaded order. The returned undo, if any, runs when the
// commit does not land.
type mutation func(ctx context.Context, order *domain.Order) (undo func(context.Context), err error)

// mutate serializes writes to one order with read-validate-CAS, retrying on version conflicts.
func (s *Service) mutate(ctx context.Context, id string, apply mutation) (*domain.Order, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapError(err)
		}
		expected := current.Version

		undo, err := apply(ctx, current)
		if err != nil {
			return nil, mapError(err)
		}

		saved, err := s.repo.CompareAndSwap(ctx, expected, current)
		if err == nil {
			return saved, nil
		}
		if undo != nil {
			undo(context.WithoutCancel(ctx))
		}
		if !errors.Is(err, ports.ErrVersionConflict) {
			return nil, mapError(err)
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "order version conflict, retrying",
			slog.String("order.id", id), slog.Int64("order.version", expected), slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%w: order %s changed %d times during update", ErrConcurrentModification, id, s.maxAttempts)
}

var _ ports.Service = (*Service)(nil)
