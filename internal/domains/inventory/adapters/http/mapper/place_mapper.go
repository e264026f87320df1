package mapper

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

// Dimensions is the transport shape of rack dimensions.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// Place is the transport shape of a rack.
type Place struct {
	RackID      string     `json:"rackId"`
	SectionCode *string    `json:"sectionCode"`
	Number      int        `json:"number"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	PricePerDay string     `json:"pricePerDay"`
	Dimensions  Dimensions `json:"dimensions"`
	TenantID    *string    `json:"tenantId"`
	OrderID     *string    `json:"orderId,omitempty"`
}

// GivePlacesRequest asks the ledger to hand places to a user for an order.
type GivePlacesRequest struct {
	PlaceIDs []string `json:"placeIds"`
	UserID   string   `json:"userId"`
	OrderID  string   `json:"orderId,omitempty"`
}

// FreePlacesRequest returns places. It also accepts a bare JSON array of place ids.
type FreePlacesRequest struct {
	PlaceIDs []string `json:"placeIds"`
	OrderID  string   `json:"orderId,omitempty"`
}

var errEmptyBody = errors.New("request body is empty")

func (r *FreePlacesRequest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errEmptyBody
	}
	if trimmed[0] == '[' {
		r.OrderID = ""
		return json.Unmarshal(trimmed, &r.PlaceIDs)
	}
	type plain FreePlacesRequest
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*r = FreePlacesRequest(decoded)
	return nil
}

func ToGiveInput(req GivePlacesRequest) ports.GiveInput {
	return ports.GiveInput{PlaceIDs: req.PlaceIDs, TenantID: req.UserID, OrderID: req.OrderID}
}

func ToFreeInput(req FreePlacesRequest) ports.FreeInput {
	return ports.FreeInput{PlaceIDs: req.PlaceIDs, OrderID: req.OrderID}
}

func FromDomainPlace(place *domain.Place) Place {
	if place == nil {
		return Place{}
	}
	return Place{
		RackID:      place.ID,
		SectionCode: nullable(place.SectionCode),
		Number:      place.Number,
		Type:        string(place.Type),
		Status:      string(place.Status),
		PricePerDay: place.PricePerDay.StringFixed(2),
		Dimensions: Dimensions{
			Width:  place.Dimensions.Width,
			Height: place.Dimensions.Height,
			Depth:  place.Dimensions.Depth,
		},
		TenantID: nullable(place.TenantID),
		OrderID:  nullable(place.OrderID),
	}
}

func FromDomainPlaces(places []*domain.Place) []Place {
	out := make([]Place, 0, len(places))
	for _, place := range places {
		out = append(out, FromDomainPlace(place))
	}
	return out
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
