// Package payments is the HTTP client for the payment ledger service.
package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/Apurer/rack-rental/internal/clients/http/restclient"
)

// Payment is the ledger's payment representation.
type Payment struct {
	PaymentID string             `json:"paymentId"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Amount    decimal.Decimal    `json:"amount"`
	Date      openapi_types.Date `json:"date"`
}

type Client struct {
	rest *restclient.Client
}

func NewPaymentClient(baseURL string, httpClient *http.Client) (*Client, error) {
	rest, err := restclient.New(baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build payment client: %w", err)
	}
	return &Client{rest: rest}, nil
}

// PaymentsByOrder lists payments recorded for orderID. An unknown order yields an empty list.
func (c *Client) PaymentsByOrder(ctx context.Context, orderID string) ([]Payment, error) {
	var payments []Payment
	err := c.rest.Do(ctx, http.MethodGet, "/api/payments/order/"+url.PathEscape(orderID), nil, &payments)
	if restclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list payments by order: %w", err)
	}
	return payments, nil
}
