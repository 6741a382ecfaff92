// Package testutils builds a fully wired test application backed by the
// in-memory store.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gobank/core/internal/fixtures"
	"github.com/gobank/core/pkg/app"
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/eventbus"
	"github.com/gobank/core/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const Secret = "test-secret"

// NewTestApp wires the HTTP app on top of the given memory store.
func NewTestApp(t *testing.T, store *fixtures.MemoryStore) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.AppConfig{
		Jwt:       config.JwtConfig{Secret: Secret, Expiry: time.Hour},
		Ledger:    config.LedgerConfig{MaxRetries: 3, MaxReferenceAttempts: 5},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, Window: time.Second},
	}
	a := app.New(&app.Deps{
		Uow:      store,
		EventBus: eventbus.NewMemoryBus(logger),
		Logger:   logger,
	}, cfg)
	return webapi.SetupApp(a)
}

// Token signs a JWT for the given user and role.
func Token(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(Secret))
	require.NoError(t, err)
	return signed
}

// DoJSON performs one request against the test app. A non-empty token is sent
// as a bearer credential.
func DoJSON(t *testing.T, fiberApp *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Decode reads the response body into v.
func Decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
