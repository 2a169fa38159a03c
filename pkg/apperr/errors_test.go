package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs(t *testing.T) {
	t.Run("wrapped app error is found", func(t *testing.T) {
		base := NotFound("Post not found")
		wrapped := fmt.Errorf("load post: %w", base)

		got := As(wrapped)
		assert.Equal(t, KindNotFound, got.Kind)
		assert.Equal(t, "Post not found", got.Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		got := As(cause)

		assert.Equal(t, KindInternal, got.Kind)
		assert.ErrorIs(t, got, cause)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, As(nil))
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("vote: %w", Conflict("You have already voted on this poll", "ALREADY_VOTED"))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindValidation))
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	err := RateLimited("Rate limit exceeded. Try again in 12 seconds.", 12)
	assert.Equal(t, 12, err.RetryAfter)
	assert.Equal(t, "RATE_LIMITED", err.Reason)
}
