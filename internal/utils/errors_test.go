package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwraps(t *testing.T) {
	err := NewNotFoundError("COI not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "COI not found: not_found", err.Error())

	internal := NewInternalError("boom", errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, internal.StatusCode)
	assert.Contains(t, internal.Error(), "disk full")
}

func TestHandleAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleAppError(rr, NewValidationError([]string{"tenantName"}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeValidation, body.Code)
	assert.Equal(t, []any{"tenantName"}, body.Details)
}

func TestHandleAppErrorFallsBackTo500(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleAppError(rr, errors.New("unexpected"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeInternal, body.Code)
	assert.Nil(t, body.Details)
}
