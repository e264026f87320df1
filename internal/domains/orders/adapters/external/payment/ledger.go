// Package payment adapts the payment ledger, remote or in-process, to the orders port.
package payment

import (
	"context"

	paymentclient "github.com/Apurer/rack-rental/internal/clients/http/payments"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
	paymentports "github.com/Apurer/rack-rental/internal/domains/payments/ports"
)

var (
	_ ports.PaymentLedger = (*HTTPLedger)(nil)
	_ ports.PaymentLedger = (*LocalLedger)(nil)
)

// HTTPLedger talks to the payment ledger service.
type HTTPLedger struct {
	client *paymentclient.Client
}

func NewHTTPLedger(client *paymentclient.Client) *HTTPLedger {
	return &HTTPLedger{client: client}
}

func (l *HTTPLedger) QueryByOrder(ctx context.Context, orderID string) ([]ports.Payment, error) {
	records, err := l.client.PaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments := make([]ports.Payment, 0, len(records))
	for _, record := range records {
		payments = append(payments, ports.Payment{
			ID:      record.PaymentID,
			OrderID: record.OrderID,
			PayerID: record.UserID,
			Amount:  record.Amount,
			Date:    record.Date.Time,
		})
	}
	return payments, nil
}

// LocalLedger calls a payment service running in the same process.
type LocalLedger struct {
	service paymentports.Service
}

func NewLocalLedger(service paymentports.Service) *LocalLedger {
	return &LocalLedger{service: service}
}

func (l *LocalLedger) QueryByOrder(ctx context.Context, orderID string) ([]ports.Payment, error) {
	records, err := l.service.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments := make([]ports.Payment, 0, len(records))
	for _, record := range records {
		payments = append(payments, ports.Payment{
			ID:      record.ID,
			OrderID: record.OrderID,
			PayerID: record.PayerID,
			Amount:  record.Amount,
			Date:    record.Date,
		})
	}
	return payments, nil
}
