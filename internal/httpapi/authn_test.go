package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"alive.africa/internal/auth"
)

func TestExtractBearerToken(t *testing.T) {
	token, err := extractBearerToken("Bearer abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	token, err = extractBearerToken("bearer abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	_, err = extractBearerToken("")
	require.Error(t, err)

	_, err = extractBearerToken("Basic dXNlcg==")
	require.Error(t, err)

	_, err = extractBearerToken("Bearer ")
	require.Error(t, err)
}

func TestIsPublicPath(t *testing.T) {
	public := []string{
		"/healthz", "/readyz", "/metrics", "/v1/info", "/",
		"/v1/auth/register", "/v1/auth/login",
		"/v1/auth/password-reset/request", "/v1/auth/password-reset/confirm",
	}
	for _, p := range public {
		require.True(t, isPublicPath(p), p)
	}

	private := []string{
		"/v1/auth/profile", "/v1/auth/password", "/v1/users",
		"/v1/projects", "/v1/notifications", "/v1/logs",
	}
	for _, p := range private {
		require.False(t, isPublicPath(p), p)
	}
}

func TestWithAuthInjectsClaims(t *testing.T) {
	tokens, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	a := &API{tokens: tokens}

	var gotID string
	var gotRoles []string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = auth.UserIDFromContext(r.Context())
		gotRoles = auth.RolesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := a.withAuth(next)

	user := &auth.User{ID: "u-1", Email: "a@example.com", Roles: []string{"employee", "admin"}}
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u-1", gotID)
	require.Contains(t, gotRoles, "admin")
}

func TestWithAuthRejectsTamperedToken(t *testing.T) {
	tokens, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	other, err := auth.NewTokenIssuer("other-secret")
	require.NoError(t, err)
	a := &API{tokens: tokens}

	h := a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token, _, err := other.Issue(&auth.User{ID: "u-1", Email: "a@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthAllowsPreflight(t *testing.T) {
	tokens, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	a := &API{tokens: tokens}

	h := a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}
