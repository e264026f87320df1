package domain

import (
	"fmt"
	"strings"
)

// Status enumerates the rental order lifecycle.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists the statuses reachable from each status. Terminal statuses map to nothing.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusFinished, StatusCancelled},
	StatusFinished:  {},
	StatusCancelled: {},
}

// ParseStatus maps a wire value to a Status, rejecting anything outside the closed set.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Valid reports whether s belongs to the lifecycle.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// HoldsRacks reports whether an order in s must carry its assigned racks.
func (s Status) HoldsRacks() bool {
	return s == StatusConfirmed || s == StatusActive
}

// CanTransition reports whether from → to is a defined edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the statuses reachable from s.
func AllowedTransitions(s Status) []Status {
	allowed := transitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}
