package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeShape(t *testing.T) {
	payload, err := json.Marshal(ErrorResponse{Error: NoSuchSlug()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"NoSuchSlug"}`, string(payload))
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{DbError(errors.New("boom")), http.StatusInternalServerError},
		{DbConnAcquire(errors.New("boom")), http.StatusServiceUnavailable},
		{DbTransactionBegin(errors.New("boom")), http.StatusInternalServerError},
		{DbTransactionCommit(errors.New("boom")), http.StatusInternalServerError},
		{UsernameTooShort(), http.StatusBadRequest},
		{PasswordTooShort(), http.StatusBadRequest},
		{PasswordsDontMatch(), http.StatusBadRequest},
		{InvalidCredentials(), http.StatusBadRequest},
		{UsernameTaken(), http.StatusBadRequest},
		{SlugTaken(), http.StatusBadRequest},
		{MissingSession(), http.StatusForbidden},
		{InvalidSession(), http.StatusForbidden},
		{NoSuchSlug(), http.StatusNotFound},
		{NoSuchFile(), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPCode, string(tc.err.Code))
	}
}

func TestWrappedCauseSurvives(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := DbError(cause)

	assert.ErrorIs(t, appErr, cause)

	// The cause never leaks into the wire shape.
	payload, err := json.Marshal(ErrorResponse{Error: appErr})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"DbError"}`, string(payload))
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NoSuchFile())
	require.True(t, ok)
	assert.Equal(t, CodeNoSuchFile, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
