package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"PendingToConfirmed", StatusPending, StatusConfirmed, true},
		{"ConfirmedToProcessing", StatusConfirmed, StatusProcessing, true},
		{"SkipAhead", StatusPending, StatusShipped, true},
		{"Backward", StatusShipped, StatusConfirmed, false},
		{"SameState", StatusProcessing, StatusProcessing, false},
		{"CancelFromPending", StatusPending, StatusCancelled, true},
		{"CancelFromShipped", StatusShipped, StatusCancelled, true},
		{"CancelFromDelivered", StatusDelivered, StatusCancelled, false},
		{"CancelFromCancelled", StatusCancelled, StatusCancelled, false},
		{"OutOfCancelled", StatusCancelled, StatusPending, false},
		{"OutOfDelivered", StatusDelivered, StatusPending, false},
		{"UnknownFrom", OrderStatus("LOST"), StatusPending, false},
		{"UnknownTo", StatusPending, OrderStatus("LOST"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("LOST").Valid())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}
