package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Type enumerates rack categories offered by the warehouse.
type Type string

const (
	TypeStandard     Type = "STANDARD"
	TypeRefrigerated Type = "REFRIGERATED"
	TypeSecure       Type = "SECURE"
)

// Status is the occupancy of a place.
type Status string

const (
	StatusFree     Status = "FREE"
	StatusOccupied Status = "OCCUPIED"
)

var (
	ErrEmptyPlaceID      = errors.New("place id is required")
	ErrInvalidType       = errors.New("rack type is invalid")
	ErrInvalidStatus     = errors.New("place status is invalid")
	ErrNegativePrice     = errors.New("price per day must not be negative")
	ErrInvalidDimensions = errors.New("dimensions must not be negative")
	ErrTenantMismatch    = errors.New("tenant must be set exactly when the place is occupied")
	ErrEmptyTenant       = errors.New("tenant id is required")
	ErrPlaceOccupied     = errors.New("place is not free")
)

// ParseType accepts a rack type in any letter case.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
	}
	return t, nil
}

func (t Type) Valid() bool {
	switch t {
	case TypeStandard, TypeRefrigerated, TypeSecure:
		return true
	default:
		return false
	}
}

func (s Status) Valid() bool {
	return s == StatusFree || s == StatusOccupied
}

// Dimensions are in centimetres.
type Dimensions struct {
	Width  int
	Height int
	Depth  int
}

// Place is a single rentable rack.
//
// TenantID is set exactly when the place is OCCUPIED. OrderID names the rental holding it and may be
// empty for occupancy recorded outside the order flow.
type Place struct {
	ID          string
	SectionCode string
	Number      int
	Type        Type
	Status      Status
	PricePerDay decimal.Decimal
	Dimensions  Dimensions
	TenantID    string
	OrderID     string
}

func (p *Place) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyPlaceID
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.PricePerDay.IsNegative() {
		return ErrNegativePrice
	}
	if p.Dimensions.Width < 0 || p.Dimensions.Height < 0 || p.Dimensions.Depth < 0 {
		return ErrInvalidDimensions
	}
	if (p.Status == StatusOccupied) != (p.TenantID != "") {
		return ErrTenantMismatch
	}
	return nil
}

func (p *Place) Free() bool {
	return p.Status == StatusFree
}

// Occupy hands a free place to tenantID on behalf of orderID.
func (p *Place) Occupy(tenantID, orderID string) error {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return ErrEmptyTenant
	}
	if !p.Free() {
		return fmt.Errorf("%w: %s", ErrPlaceOccupied, p.ID)
	}
	p.Status = StatusOccupied
	p.TenantID = tenantID
	p.OrderID = strings.TrimSpace(orderID)
	return nil
}

// Vacate frees the place and reports whether anything changed. A non-empty orderID only frees a place
// held by that order, which makes repeated or stale releases no-ops.
func (p *Place) Vacate(orderID string) bool {
	if p.Free() {
		return false
	}
	if orderID != "" && p.OrderID != orderID {
		return false
	}
	p.Status = StatusFree
	p.TenantID = ""
	p.OrderID = ""
	return true
}

func (p *Place) Clone() *Place {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
