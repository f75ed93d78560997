package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

var testSecret = []byte("test-secret")

type fakeResolver struct {
	users map[int64]*user.User
}

func (r *fakeResolver) GetByID(_ context.Context, id int64) (*user.User, error) {
	return r.users[id], nil
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(testSecret, 42)
	require.NoError(t, err)

	id, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, 42)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), token)
	assert.Error(t, err)
}

func TestMiddlewareAttachesActor(t *testing.T) {
	resolver := &fakeResolver{users: map[int64]*user.User{
		7: {ID: 7, Role: user.RoleVendor, CompanyID: 3},
	}}

	var got user.Actor
	handler := NewMiddleware(testSecret, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		got = actor
	}))

	token, err := IssueToken(testSecret, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, user.RoleVendor, got.Role)
	assert.Equal(t, int64(3), got.CompanyID)
}

func TestMiddlewareMissingBearer(t *testing.T) {
	handler := NewMiddleware(testSecret, &fakeResolver{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareBadToken(t *testing.T) {
	handler := NewMiddleware(testSecret, &fakeResolver{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareUnknownUser(t *testing.T) {
	handler := NewMiddleware(testSecret, &fakeResolver{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	token, err := IssueToken(testSecret, 999)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireRole(t *testing.T) {
	allowed := RequireRole(user.RoleCompany, user.RoleAdmin)

	run := func(actor *user.Actor) *httptest.ResponseRecorder {
		handler := allowed(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if actor != nil {
			req = req.WithContext(WithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	company := user.Actor{ID: 1, Role: user.RoleCompany}
	assert.Equal(t, http.StatusNoContent, run(&company).Code)

	vendor := user.Actor{ID: 2, Role: user.RoleVendor}
	assert.Equal(t, http.StatusForbidden, run(&vendor).Code)

	assert.Equal(t, http.StatusUnauthorized, run(nil).Code)
}
