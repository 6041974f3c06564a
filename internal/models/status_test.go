package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "preparing", "ready", "completed", "cancelled"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}

	_, err := ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	// Parsing is case sensitive, matching stored values exactly.
	_, err = ParseStatus("Pending")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPreparing, StatusReady, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusReady, StatusCompleted, true},
		{StatusReady, StatusCancelled, true},

		// No skipping forward
		{StatusPending, StatusPreparing, false},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusReady, false},
		{StatusConfirmed, StatusCompleted, false},
		{StatusPreparing, StatusCompleted, false},

		// No moving backwards
		{StatusConfirmed, StatusPending, false},
		{StatusPreparing, StatusConfirmed, false},
		{StatusReady, StatusPreparing, false},

		// Terminal states allow nothing, including self
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},

		// Self-transitions are never allowed
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(StatusPending, StatusConfirmed))

	err := CheckTransition(StatusReady, StatusConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Contains(t, err.Error(), "ready -> confirmed")
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusPreparing.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
}
