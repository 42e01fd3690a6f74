package server

import (
	"net/http"
	"testing"
	"time"

	"resumescore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator(t *testing.T) {
	auth := NewJWTAuthenticator("top-secret", "resume-builder")

	token, err := auth.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "resume-builder", claims.Issuer)

	t.Run("expired", func(t *testing.T) {
		expired, err := auth.IssueToken("user-1", -time.Minute)
		require.NoError(t, err)
		_, err = auth.Verify(expired)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTAuthenticator("other", "resume-builder").Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewJWTAuthenticator("top-secret", "someone-else").Verify(token)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := auth.Verify("")
		assert.Error(t, err)
	})
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, ServerConfig{
		APIKeys: []string{"key-12345678"},
		JWT:     config.JWTConfig{Secret: "top-secret"},
	})
	h := s.Handler(nil)
	token, err := s.JWTAuth.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"api key header", map[string]string{"X-API-Key": "key-12345678"}, http.StatusOK},
		{"api key bearer", map[string]string{"Authorization": "Bearer key-12345678"}, http.StatusOK},
		{"jwt bearer", map[string]string{"Authorization": "Bearer " + token}, http.StatusOK},
		{"lowercase scheme", map[string]string{"Authorization": "bearer " + token}, http.StatusOK},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"garbage token", map[string]string{"Authorization": "Bearer abc.def.ghi"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/score", sampleResume, tt.headers)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthMiddlewareOpenWithoutCredentials(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	rec := doRequest(t, s.Handler(nil), http.MethodPost, "/score", sampleResume, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthIsUnauthenticated(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"key-12345678"}})
	rec := doRequest(t, s.Handler(nil), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "key-1234****", maskAPIKey("key-12345678"))
}
