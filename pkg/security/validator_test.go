package security

import (
	"strings"
	"testing"

	"freedom_wall/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStringValidator(t *testing.T) {
	v := NewStringValidator("Message", 10, true)

	t.Run("required", func(t *testing.T) {
		err := v.Validate("")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.EqualError(t, err, "validation: Message is required")
	})

	t.Run("whitespace only", func(t *testing.T) {
		err := v.Validate("   \t ")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("too long counts runes", func(t *testing.T) {
		assert.NoError(t, v.Validate(strings.Repeat("é", 10)))
		err := v.Validate(strings.Repeat("é", 11))
		assert.Contains(t, err.Error(), "must be 10 characters or less")
	})

	t.Run("no ceiling", func(t *testing.T) {
		unlimited := NewStringValidator("Message", 0, true)
		assert.NoError(t, unlimited.Validate(strings.Repeat("x", 50000)))
	})

	t.Run("optional empty passes", func(t *testing.T) {
		assert.NoError(t, NewStringValidator("Name", 100, false).Validate(""))
	})

	t.Run("suspicious", func(t *testing.T) {
		for _, in := range []string{"<script>x", "<IFRAME src=x>", "a onclick=b", "javascript:x", "<embed>", "<object>", "data:x", "vbscript:x"} {
			err := NewStringValidator("Message", 0, true).Validate(in)
			assert.Error(t, err, in)
		}
	})
}

func TestEmailValidator(t *testing.T) {
	v := NewEmailValidator(100)
	assert.NoError(t, v.Validate("someone@example.com"))
	assert.Error(t, v.Validate("not-an-email"))
	assert.Error(t, v.Validate("a@b"))
}

func TestValidateAll(t *testing.T) {
	err := ValidateAll(
		ValidationRule{Validator: NewStringValidator("Name", 5, false), Value: "ok"},
		ValidationRule{Validator: NewStringValidator("Message", 5, true), Value: "too long message"},
	)
	assert.Contains(t, err.Error(), "Message must be 5 characters or less")
}
