package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		status      int
		header      string
		expectLevel string
	}{
		{name: "success logs info", status: http.StatusOK, expectLevel: "INFO"},
		{name: "client error logs warn", status: http.StatusNotFound, expectLevel: "WARN"},
		{name: "server error logs error", status: http.StatusInternalServerError, expectLevel: "ERROR"},
		{name: "incoming request id is kept", status: http.StatusOK, header: "abc-123", expectLevel: "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Setup("authsvc", "test", "json", &buf)

			var seenID string
			router := gin.New()
			router.Use(GinLogger(logger))
			router.GET("/ping", func(c *gin.Context) {
				seenID = RequestIDFrom(c.Request.Context())
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.NotEmpty(t, seenID)
			assert.Equal(t, seenID, w.Header().Get(RequestIDHeader))
			if tt.header != "" {
				assert.Equal(t, tt.header, seenID)
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
			assert.Equal(t, tt.expectLevel, entry["level"])
			assert.Equal(t, "/ping", entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, seenID, entry["request_id"])
		})
	}
}
