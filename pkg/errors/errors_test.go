package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMatchesByCode(t *testing.T) {
	validation := New(CodeValidationFailed, "Prompt is required")
	wrapped := fmt.Errorf("generate: %w", validation.WithDetail("prompt is blank"))

	assert.True(t, stderrors.Is(wrapped, validation))
	assert.True(t, stderrors.Is(wrapped, New(CodeValidationFailed, "other message")))
	assert.False(t, stderrors.Is(wrapped, New(CodeMalformedResponse, "malformed")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(wrapped))
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, New(CodeTooManyRequests, "slow down").HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, New(CodeServiceUnavailable, "down").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, New(CodeInvalidParam, "bad").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(CodeLLMCallFailed, "llm").HTTPStatus)
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	_ = ErrIdeaNotFound.WithDetail("id=1")
	assert.Empty(t, ErrIdeaNotFound.Detail)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeLLMProviderError, "provider unavailable")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	plain := stderrors.New("boom")
	appErr := AsAppError(plain)
	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.False(t, IsAppError(plain))
	assert.True(t, IsAppError(fmt.Errorf("x: %w", ErrIdeaNotFound)))
	assert.Equal(t, http.StatusNotFound, StatusOf(ErrIdeaNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(plain))
}
