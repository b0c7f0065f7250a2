package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrUserNotFound)
	assert.True(t, errors.Is(wrapped, ErrUserNotFound))
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsExternalError(wrapped))

	// Is matches on type, so two not-found errors compare equal
	assert.True(t, errors.Is(ErrClientNotFound, ErrUserNotFound))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapExternal("profile store query failed", cause)

	assert.True(t, IsExternalError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGenerationErrorsDistinctFromExternal(t *testing.T) {
	// A provider being down is retryable upstream trouble; unusable output
	// is a rejected generation. The handlers map them to different statuses.
	assert.True(t, IsExternalError(ErrProviderUnavailable))
	assert.False(t, IsGenerationError(ErrProviderUnavailable))
	assert.True(t, IsGenerationError(ErrMalformedGeneration))
	assert.False(t, IsExternalError(ErrMalformedGeneration))
}

func TestWithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "bad payload", nil).
		WithDetail("field", "platforms")

	details := GetErrorDetails(err)
	assert.Equal(t, "platforms", details["field"])
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
}

func TestGetErrorTypeNonDomain(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}
