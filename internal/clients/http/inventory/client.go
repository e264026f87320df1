// Package inventory is the HTTP client for the inventory ledger service.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Apurer/rack-rental/internal/clients/http/restclient"
)

// ErrPlacesUnavailable is the ledger refusing a grant because a place is no longer free.
var ErrPlacesUnavailable = errors.New("inventory ledger refused the grant")

// Place is the subset of the ledger's place representation the client decodes.
type Place struct {
	RackID      string  `json:"rackId"`
	SectionCode *string `json:"sectionCode"`
	Number      int     `json:"number"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	PricePerDay string  `json:"pricePerDay"`
	TenantID    *string `json:"tenantId"`
	OrderID     *string `json:"orderId,omitempty"`
}

// GiveRequest hands places to a user for an order.
type GiveRequest struct {
	PlaceIDs []string `json:"placeIds"`
	UserID   string   `json:"userId"`
	OrderID  string   `json:"orderId,omitempty"`
}

// FreeRequest returns places held by an order.
type FreeRequest struct {
	PlaceIDs []string `json:"placeIds"`
	OrderID  string   `json:"orderId,omitempty"`
}

type Client struct {
	rest *restclient.Client
}

func NewInventoryClient(baseURL string, httpClient *http.Client) (*Client, error) {
	rest, err := restclient.New(baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build inventory client: %w", err)
	}
	return &Client{rest: rest}, nil
}

// FreePlacesByType lists free places of a rack type in ledger order.
func (c *Client) FreePlacesByType(ctx context.Context, rackType string) ([]Place, error) {
	var places []Place
	if err := c.rest.Do(ctx, http.MethodGet, "/api/places/free/type/"+url.PathEscape(rackType), nil, &places); err != nil {
		return nil, fmt.Errorf("list free places: %w", err)
	}
	return places, nil
}

// GivePlaces occupies every requested place or none.
func (c *Client) GivePlaces(ctx context.Context, req GiveRequest) error {
	err := c.rest.Do(ctx, http.MethodPost, "/api/places/give", req, nil)
	if restclient.IsStatus(err, http.StatusConflict) {
		return fmt.Errorf("%w: %w", ErrPlacesUnavailable, err)
	}
	if err != nil {
		return fmt.Errorf("give places: %w", err)
	}
	return nil
}

// FreePlaces releases places still held by req.OrderID.
func (c *Client) FreePlaces(ctx context.Context, req FreeRequest) error {
	if err := c.rest.Do(ctx, http.MethodPost, "/api/places/free", req, nil); err != nil {
		return fmt.Errorf("free places: %w", err)
	}
	return nil
}
