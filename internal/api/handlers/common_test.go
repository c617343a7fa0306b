package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	common.Logger = zap.NewNop()
}

func TestWriteErrorMapsCustomErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid url", err: common.ErrInvalidURL, wantStatus: 400, wantCode: "INVALID_URL"},
		{name: "upstream rejected", err: common.NewUpstreamRejectedError(403), wantStatus: 422, wantCode: "UPSTREAM_REJECTED"},
		{name: "no structured data", err: common.ErrNoStructuredData, wantStatus: 422, wantCode: "NO_STRUCTURED_DATA"},
		{name: "fetch failed", err: common.NewFetchFailedError(errors.New("dial tcp")), wantStatus: 502, wantCode: "FETCH_FAILED"},
		{name: "store error", err: common.NewStoreError(errors.New("http 500")), wantStatus: 502, wantCode: "STORE_ERROR"},
		{name: "not found", err: common.ErrNotFound, wantStatus: 404, wantCode: "NOT_FOUND"},
		{name: "plain error hides detail", err: errors.New("secret detail"), wantStatus: 500, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			WriteError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Error, "secret detail")
		})
	}
}

func TestRequestIDFallback(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	id := RequestID(c)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))

	// 已帶 ID 就沿用
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.Header.Set("X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", RequestID(c2))
}
