package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyOrderID      = errors.New("order id is required")
	ErrEmptyRenter       = errors.New("renter id is required")
	ErrInvalidRackCount  = errors.New("rack count must be at least one")
	ErrInvalidCategory   = errors.New("rack category is invalid")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidDateRange  = errors.New("end date must not precede start date")
	ErrMissingDates      = errors.New("start and end dates are required")
	ErrInvalidTransition = errors.New("order transition is not allowed")
	ErrRackCountMismatch = errors.New("assigned racks must match the requested rack count")
	ErrUnexpectedRacks   = errors.New("racks may only be assigned while confirmed or active")
	ErrDuplicateRackID   = errors.New("assigned rack ids must be unique")
)

// Order is the rental order aggregate driven by the lifecycle orchestrator.
type Order struct {
	ID            string
	RenterID      string
	StartDate     time.Time
	EndDate       time.Time
	RackCount     int
	Category      Category
	AssignedRacks []string
	Status        Status
	// Version increases by one on every committed write and guards compare-and-swap updates.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder validates and constructs an order in CREATED with no racks assigned.
func NewOrder(id, renterID string, rackCount int, category Category, start, end, now time.Time) (*Order, error) {
	order := &Order{
		ID:        strings.TrimSpace(id),
		RenterID:  strings.TrimSpace(renterID),
		StartDate: DateOf(start),
		EndDate:   DateOf(end),
		RackCount: rackCount,
		Category:  category,
		Status:    StatusCreated,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyOrderID
	}
	if o.RenterID == "" {
		return ErrEmptyRenter
	}
	if o.RackCount < 1 {
		return ErrInvalidRackCount
	}
	if !o.Category.Valid() {
		return ErrInvalidCategory
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.StartDate.IsZero() || o.EndDate.IsZero() {
		return ErrMissingDates
	}
	if o.EndDate.Before(o.StartDate) {
		return ErrInvalidDateRange
	}
	return o.validateRacks()
}

func (o *Order) validateRacks() error {
	if !o.Status.HoldsRacks() {
		if len(o.AssignedRacks) > 0 {
			return ErrUnexpectedRacks
		}
		return nil
	}
	if len(o.AssignedRacks) != o.RackCount {
		return ErrRackCountMismatch
	}
	seen := make(map[string]struct{}, len(o.AssignedRacks))
	for _, id := range o.AssignedRacks {
		if _, dup := seen[id]; dup {
			return ErrDuplicateRackID
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Confirm records the racks granted by the inventory ledger and moves CREATED → CONFIRMED.
func (o *Order) Confirm(racks []string, now time.Time) error {
	if err := o.transition(StatusConfirmed); err != nil {
		return err
	}
	if len(racks) != o.RackCount {
		return fmt.Errorf("%w: want %d, got %d", ErrRackCountMismatch, o.RackCount, len(racks))
	}
	o.AssignedRacks = append([]string(nil), racks...)
	o.Status = StatusConfirmed
	o.UpdatedAt = now.UTC()
	return o.validateRacks()
}

// Start moves CONFIRMED → ACTIVE.
func (o *Order) Start(now time.Time) error {
	if err := o.transition(StatusActive); err != nil {
		return err
	}
	o.Status = StatusActive
	o.UpdatedAt = now.UTC()
	return nil
}

// Finish moves ACTIVE → FINISHED and returns the racks to hand back to the ledger.
func (o *Order) Finish(now time.Time) ([]string, error) {
	if err := o.transition(StatusFinished); err != nil {
		return nil, err
	}
	return o.vacate(StatusFinished, now), nil
}

// Cancel moves any non-terminal order to CANCELLED and returns the racks to hand back to the ledger.
func (o *Order) Cancel(now time.Time) ([]string, error) {
	if err := o.transition(StatusCancelled); err != nil {
		return nil, err
	}
	return o.vacate(StatusCancelled, now), nil
}

func (o *Order) vacate(status Status, now time.Time) []string {
	released := o.AssignedRacks
	o.AssignedRacks = nil
	o.Status = status
	o.UpdatedAt = now.UTC()
	return released
}

func (o *Order) transition(to Status) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	return nil
}

// Overlaps reports whether the rental period intersects [start, end].
func (o *Order) Overlaps(start, end time.Time) bool {
	return !o.StartDate.After(DateOf(end)) && !o.EndDate.Before(DateOf(start))
}

// Clone returns a deep copy safe to mutate independently.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.AssignedRacks != nil {
		clone.AssignedRacks = append([]string(nil), o.AssignedRacks...)
	}
	return &clone
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
