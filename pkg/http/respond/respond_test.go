package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))

	return parsed
}

func TestResultBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Result(rec, http.StatusCreated, map[string]string{"orderRef": "#123"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	parsed := decode(t, rec)
	result, ok := parsed["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "#123", result["orderRef"])
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.BadRequest("bad"), http.StatusBadRequest},
		{apperr.Unauthorized("no"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("again"), http.StatusConflict},
		{apperr.Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Internal(errors.New("pq: connection refused")))

	parsed := decode(t, rec)
	assert.Equal(t, "Something went wrong!", parsed["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
