package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
)

// CreatePaymentInput records a payment. A zero Date means today.
type CreatePaymentInput struct {
	OrderID string
	PayerID string
	Amount  decimal.Decimal
	Date    time.Time
}

// Service exposes the payment ledger use cases.
type Service interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]*domain.Payment, error)
	ListByPayer(ctx context.Context, payerID string) ([]*domain.Payment, error)
}
