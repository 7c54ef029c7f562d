package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	httperr "github.com/kiddraughts-lab/draughts-telemetry/internal/core/errors"
)

func newAuthedRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", APIKeyAuth(apiKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, httperr.OK())
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantCode int
	}{
		{name: "matching key passes", key: "sekrit", wantCode: http.StatusOK},
		{name: "wrong key rejected", key: "nope", wantCode: http.StatusUnauthorized},
		{name: "missing key rejected", key: "", wantCode: http.StatusUnauthorized},
	}

	r := newAuthedRouter("sekrit")

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tc.key != "" {
				req.Header.Set(APIKeyHeader, tc.key)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			require.Equal(t, tc.wantCode, resp.Code)

			var result httperr.Response
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
			require.Equal(t, tc.wantCode == http.StatusOK, result.OK)
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("issues an id when absent", func(t *testing.T) {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, resp.Header().Get("X-Request-ID"))
	})

	t.Run("honors a caller-supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		require.Equal(t, "req-123", resp.Header().Get("X-Request-ID"))
	})
}
