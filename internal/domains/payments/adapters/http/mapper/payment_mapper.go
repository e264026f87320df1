package mapper

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
	"github.com/Apurer/rack-rental/internal/domains/payments/ports"
)

// CreatePaymentRequest is the transport shape of a new payment.
type CreatePaymentRequest struct {
	OrderID string              `json:"orderId"`
	UserID  string              `json:"userId"`
	Amount  decimal.Decimal     `json:"amount"`
	Date    *openapi_types.Date `json:"date,omitempty"`
}

// Payment is the transport shape of a recorded payment.
type Payment struct {
	PaymentID string             `json:"paymentId"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Amount    decimal.Decimal    `json:"amount"`
	Date      openapi_types.Date `json:"date"`
}

func ToCreateInput(req CreatePaymentRequest) ports.CreatePaymentInput {
	input := ports.CreatePaymentInput{
		OrderID: req.OrderID,
		PayerID: req.UserID,
		Amount:  req.Amount,
	}
	if req.Date != nil {
		input.Date = req.Date.Time
	}
	return input
}

func FromDomainPayment(payment *domain.Payment) Payment {
	if payment == nil {
		return Payment{}
	}
	return Payment{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		UserID:    payment.PayerID,
		Amount:    payment.Amount,
		Date:      openapi_types.Date{Time: payment.Date},
	}
}

func FromDomainPayments(payments []*domain.Payment) []Payment {
	out := make([]Payment, 0, len(payments))
	for _, payment := range payments {
		out = append(out, FromDomainPayment(payment))
	}
	return out
}
