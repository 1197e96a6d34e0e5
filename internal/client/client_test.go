package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspecthub/internal/auth/models"
	"inspecthub/internal/auth/store/tokens"
	dErrors "inspecthub/pkg/domain-errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, NewTransport(tokens.NewMemory()))
}

func TestLoginRemapsUnauthorizedToInvalidCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"bad credentials"}`))
	})

	_, err := c.Login(context.Background(), models.LoginRequest{
		Email:    "viewer@ihub.com",
		Password: "nope",
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLoginDecodesResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{
			"user": {"id": "user-1", "email": "admin@ihub.com", "role": "admin"},
			"accessToken": "access-1",
			"refreshToken": "refresh-1",
			"tokenType": "Bearer",
			"expiresIn": 3600
		}`))
	})

	result, err := c.Login(context.Background(), models.LoginRequest{
		Email:    "admin@ihub.com",
		Password: "Admin@123",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
	assert.Equal(t, models.TokenPair{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
	}, result.Tokens())
}

func TestStatusErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   dErrors.Code
	}{
		{"bad request", http.StatusBadRequest, dErrors.CodeInvalidInput},
		{"forbidden", http.StatusForbidden, dErrors.CodeAuthorizationDenied},
		{"not found", http.StatusNotFound, dErrors.CodeNotFound},
		{"conflict", http.StatusConflict, dErrors.CodeConflict},
		{"server error", http.StatusInternalServerError, dErrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"x","message":"rejected"}`))
			})

			err := c.Get(context.Background(), "/inspections", nil)

			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.want), "got %v", err)
		})
	}
}

func TestRefreshSendsStoredToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		var req models.RefreshRequest
		require.NoError(t, decodeJSON(r, &req))
		assert.Equal(t, "refresh-1", req.RefreshToken)
		_, _ = w.Write([]byte(`{"accessToken":"access-2","refreshToken":"refresh-2","expiresIn":3600}`))
	})

	result, err := c.Refresh(context.Background(), "refresh-1")

	require.NoError(t, err)
	assert.Equal(t, "access-2", result.AccessToken)
	assert.Equal(t, "refresh-2", result.RefreshToken)
}

func decodeJSON(r *http.Request, out any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(out)
}
