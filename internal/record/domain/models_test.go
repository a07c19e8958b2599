package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusPending.CanTransitionTo(StatusFailed))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusFailed.CanTransitionTo(StatusRetry))
	assert.True(t, StatusFailed.CanTransitionTo(StatusFailed))
	assert.True(t, StatusRetry.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusRetry.CanTransitionTo(StatusFailed))

	// Terminal states have no outgoing transitions.
	for _, next := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRetry, StatusCancelled} {
		assert.False(t, StatusCompleted.CanTransitionTo(next), "COMPLETED -> %s", next)
		assert.False(t, StatusCancelled.CanTransitionTo(next), "CANCELLED -> %s", next)
	}

	assert.False(t, StatusPending.CanTransitionTo(StatusRetry))
	assert.False(t, StatusRetry.CanTransitionTo(StatusRetry))
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("SHIPPED").Valid())
}
