package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyPaymentID = errors.New("payment id is required")
	ErrEmptyOrderID   = errors.New("order id is required")
	ErrEmptyPayerID   = errors.New("payer id is required")
	ErrInvalidAmount  = errors.New("payment amount must be greater than 0")
	ErrMissingDate    = errors.New("payment date is required")
)

// Payment records money received for an order. Payments are immutable once recorded.
type Payment struct {
	ID        string
	OrderID   string
	PayerID   string
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}

// NewPayment validates and constructs a payment. A zero date defaults to the day of now.
func NewPayment(id, orderID, payerID string, amount decimal.Decimal, date, now time.Time) (*Payment, error) {
	if date.IsZero() {
		date = now
	}
	payment := &Payment{
		ID:        strings.TrimSpace(id),
		OrderID:   strings.TrimSpace(orderID),
		PayerID:   strings.TrimSpace(payerID),
		Amount:    amount,
		Date:      DateOf(date),
		CreatedAt: now.UTC(),
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	return payment, nil
}

func (p *Payment) Validate() error {
	switch {
	case p.ID == "":
		return ErrEmptyPaymentID
	case p.OrderID == "":
		return ErrEmptyOrderID
	case p.PayerID == "":
		return ErrEmptyPayerID
	case !p.Amount.IsPositive():
		return ErrInvalidAmount
	case p.Date.IsZero():
		return ErrMissingDate
	}
	return nil
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
