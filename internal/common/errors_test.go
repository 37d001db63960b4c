// File: internal/common/errors_test.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsReturnsCopy(t *testing.T) {
	detailed := ErrBadRequest.WithDetails("email is missing")

	assert.Equal(t, ErrBadRequest.StatusCode, detailed.StatusCode)
	assert.Equal(t, ErrBadRequest.Code, detailed.Code)
	assert.Equal(t, "email is missing", detailed.Details)

	// The shared sentinel is never mutated.
	assert.Nil(t, ErrBadRequest.Details)
}

func TestIsAPIError(t *testing.T) {
	apiErr, ok := IsAPIError(ErrNotFound)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	wrapped := fmt.Errorf("lookup: %w", ErrConflict)
	apiErr, ok = IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)

	_, ok = IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}
