package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

func routerConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Version: "test"},
		Server: config.ServerConfig{Port: 8080},
		Importer: config.ImporterConfig{
			UserAgent:    "test-agent",
			FetchTimeout: 5 * time.Second,
			MaxRedirects: 5,
		},
		Store: config.StoreConfig{
			URL:     "http://localhost:1",
			APIKey:  "key",
			Timeout: time.Second,
		},
		Shopping: config.ShoppingConfig{Parallelism: 2},
	}
}

func TestRouterHealth(t *testing.T) {
	router, err := SetupRouter(routerConfig(), nil, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router, err := SetupRouter(routerConfig(), nil, nil)
	require.NoError(t, err)

	// 匯入端點只收 POST，用 GET 要回 405 不是 404
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/import", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.ErrCodeMethodNotAllowed, body.Code)
	assert.Equal(t, "Method not allowed", body.Error)
}

func TestRouterImportInvalidURL(t *testing.T) {
	router, err := SetupRouter(routerConfig(), nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/import",
		strings.NewReader(`{"url":"not-a-url"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.ErrCodeInvalidURL, body.Code)
	assert.Equal(t, "Invalid URL", body.Error)
}

func TestRouterImportMissingBody(t *testing.T) {
	router, err := SetupRouter(routerConfig(), nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/import",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
