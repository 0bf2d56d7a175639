package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPinger is a mock implementation of Pinger.
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func setupHealthApp(pinger *mockPinger) *fiber.App {
	app := fiber.New()
	h := NewHealthHandler(pinger)
	app.Get("/health", h.Check)
	return app
}

func TestHealthCheck_Healthy(t *testing.T) {
	app := setupHealthApp(&mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "healthy", result["status"])
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	pinger := &mockPinger{
		pingFn: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	}
	app := setupHealthApp(pinger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "unhealthy", result["status"])
	assert.Equal(t, "database connection failed", result["error"])
}
