package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasErrorCode(t *testing.T) {
	base := NewOutOfTurnErrorf("game %d waits for %s", 1, ColorBlack)
	assert.Equal(t, ErrCodeOutOfTurn, base.Code())
	assert.Contains(t, base.Error(), "[Error Code: 1002]")

	wrapped := fmt.Errorf("call failed: %w", base)
	assert.True(t, IsOutOfTurnError(wrapped))
	assert.False(t, IsAccessDeniedError(wrapped))

	// an outer code does not hide an inner one
	nested := NewInvalidTraceErrorf("outer: %w", NewAccessDeniedErrorf("inner"))
	assert.True(t, IsInvalidTraceError(nested))
	assert.True(t, IsAccessDeniedError(nested))

	assert.False(t, HasErrorCode(errors.New("plain"), ErrCodeOutOfTurn))
	assert.False(t, HasErrorCode(nil, ErrCodeOutOfTurn))
}
