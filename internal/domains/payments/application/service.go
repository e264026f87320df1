package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
	"github.com/Apurer/rack-rental/internal/domains/payments/ports"
)

const maxIDAttempts = 3

// Service implements the payment ledger.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
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

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default(), now: time.Now, newID: NewPaymentID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// NewPaymentID returns "p" followed by eight lowercase hex characters.
func NewPaymentID() string {
	return "p" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *Service) CreatePayment(ctx context.Context, input ports.CreatePaymentInput) (*domain.Payment, error) {
	for attempt := 1; ; attempt++ {
		payment, err := domain.NewPayment(s.newID(), input.OrderID, input.PayerID, input.Amount, input.Date, s.now())
		if err != nil {
			return nil, mapError(err)
		}
		created, err := s.repo.Create(ctx, payment)
		if errors.Is(err, ports.ErrAlreadyExists) && attempt < maxIDAttempts {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "payment recorded",
			slog.String("payment.id", created.ID),
			slog.String("order.id", created.OrderID),
			slog.String("amount", created.Amount.String()),
		)
		return created, nil
	}
}

func (s *Service) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	return s.repo.List(ctx, ports.Filter{})
}

func (s *Service) ListByOrder(ctx context.Context, orderID string) ([]*domain.Payment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, mapError(domain.ErrEmptyOrderID)
	}
	return s.repo.List(ctx, ports.Filter{OrderID: orderID})
}

func (s *Service) ListByPayer(ctx context.Context, payerID string) ([]*domain.Payment, error) {
	payerID = strings.TrimSpace(payerID)
	if payerID == "" {
		return nil, mapError(domain.ErrEmptyPayerID)
	}
	return s.repo.List(ctx, ports.Filter{PayerID: payerID})
}
