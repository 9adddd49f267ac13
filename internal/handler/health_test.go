package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHealth(t *testing.T, checks map[string]HealthCheck) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := &HealthHandler{env: "test", timeout: time.Second, checks: checks}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestCheckHealthAllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	rec, body := runHealth(t, map[string]HealthCheck{"database": ok, "redis": ok})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])

	checks := body["checks"].(map[string]any)
	assert.Len(t, checks, 2)
}

func TestCheckHealthFailingDependency(t *testing.T) {
	rec, body := runHealth(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])

	redis := body["checks"].(map[string]any)["redis"].(map[string]any)
	assert.Equal(t, "unhealthy", redis["status"])
	assert.Equal(t, "connection refused", redis["error"])
}

func TestCheckHealthAppliesTimeout(t *testing.T) {
	var deadlineSet bool
	runHealth(t, map[string]HealthCheck{
		"database": func(ctx context.Context) error {
			_, deadlineSet = ctx.Deadline()
			return nil
		},
	})
	assert.True(t, deadlineSet)
}

func TestServeOpenAPIUI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>docs</html>"), 0o600))

	h := &OpenAPIHandler{uiPath: path}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), rec)

	require.NoError(t, h.ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
}

func TestServeOpenAPIUIMissingFile(t *testing.T) {
	h := &OpenAPIHandler{uiPath: filepath.Join(t.TempDir(), "missing.html")}
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), httptest.NewRecorder())

	assert.Error(t, h.ServeOpenAPIUI(c))
}
