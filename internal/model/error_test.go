package model

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := map[string]struct {
		err  error
		kind string
	}{
		"validation":    {&ValidationError{Message: "bad"}, KindValidation},
		"not found":     {&NotFoundError{Message: "gone"}, KindNotFound},
		"conflict":      {&ConflictError{Reason: "busy"}, KindConflict},
		"external":      {&ExternalServiceError{Message: "down"}, KindExternalService},
		"signing":       {&SigningError{Message: "nope"}, KindSigning},
		"configuration": {&ConfigurationError{Message: "unset"}, KindConfiguration},
		"decryption":    {&DecryptionError{Message: "garbled"}, KindDecryption},
		"wrapped":       {fmt.Errorf("context: %w", &ConflictError{Reason: "busy"}), KindConflict},
		"unknown":       {fmt.Errorf("mystery"), KindExternalService},
	}
	for name, tc := range cases {
		assert.Equal(t, tc.kind, KindOf(tc.err), name)
	}
}

func TestFailPreservesRetriable(t *testing.T) {
	res := Fail(&ExternalServiceError{Provider: "jupiter", Message: "timeout", Retriable: true})
	assert.False(t, res.Success)
	assert.Equal(t, KindExternalService, res.ErrorKind)
	assert.True(t, res.Retriable)
	assert.Equal(t, "jupiter: timeout", res.ErrorDetail)

	res = Fail(&ValidationError{Message: "too small"})
	assert.False(t, res.Retriable)
}

func TestValidCondition(t *testing.T) {
	assert.True(t, ValidCondition("above"))
	assert.True(t, ValidCondition("below"))
	assert.False(t, ValidCondition("sideways"))
}

func TestWatchConditionBoundaryIsInclusive(t *testing.T) {
	price := decimal.NewFromInt(100)
	assert.True(t, ConditionAbove.Satisfied(price, price))
	assert.True(t, ConditionBelow.Satisfied(price, price))
	assert.False(t, ConditionAbove.Satisfied(price.Sub(decimal.New(1, -2)), price))
	assert.False(t, ConditionBelow.Satisfied(price.Add(decimal.New(1, -2)), price))
}
