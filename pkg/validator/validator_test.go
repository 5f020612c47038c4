package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Kind   string `validate:"required,oneof=a b"`
	Offset int    `validate:"gte=0"`
	Email  string `validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(sample{Kind: "a"}))
	assert.NoError(t, v.Validate(&sample{Kind: "b", Offset: 30, Email: "a@b.co"}))

	err := v.Validate(sample{Kind: "c", Offset: -1, Email: "nope"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "sample.Kind must be one of [a b]")
		assert.Contains(t, err.Error(), "sample.Offset must be at least 0")
		assert.Contains(t, err.Error(), "sample.Email must be a valid email")
	}

	err = v.Validate(sample{})
	assert.ErrorContains(t, err, "sample.Kind is required")
}
