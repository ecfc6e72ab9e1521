package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrTenantNotApproved, "institute is pending approval"))

	appErr := FromError(wrapped)

	assert.Equal(t, ErrTenantNotApproved.Code, appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestIsMatchesByCode(t *testing.T) {
	err := Clone(ErrNoTenant, "custom message")

	assert.True(t, Is(err, ErrNoTenant))
	assert.False(t, Is(err, ErrUnauthorized))
	assert.False(t, Is(nil, ErrNoTenant))
}

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	clone := Clone(ErrConflict, "email already registered")

	assert.Equal(t, "email already registered", clone.Message)
	assert.Equal(t, "conflict", ErrConflict.Message)
}
