package models

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var ErrUnknownStatus = errors.New("unknown order status")

// transitions is the canonical one-directional progression. Cancelled is
// reachable from every non-terminal state; completed and cancelled are
// terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition (wrapped with the pair)
// when from -> to is not allowed. It never mutates anything, so callers
// can fail fast before touching state.
func CheckTransition(from, to OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
