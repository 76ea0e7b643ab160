package logger

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskSensitiveString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "short value fully masked", input: "abc123", expected: "******"},
		{name: "api key", input: "0123456789abcdef", expected: "012...def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskSensitiveString(tt.input, 3, 3))
		})
	}
}

func TestFilterSensitiveHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abc")
	headers.Set("X-Api-Key", "secret")
	headers.Set("X-Battery-Level", "87")

	filtered := filterSensitiveHeaders(headers)

	assert.Equal(t, "[REDACTED]", filtered["Authorization"])
	assert.Equal(t, "[REDACTED]", filtered["X-Api-Key"])
	assert.Equal(t, "87", filtered["X-Battery-Level"])
}

type upstreamErr struct{}

func (upstreamErr) Error() string { return "boom" }

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, "", getErrorType(nil))
	assert.Equal(t, "upstreamErr", getErrorType(fmt.Errorf("wrapped: %w", upstreamErr{})))
}

func TestLogErrorRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	c.Request.Header.Set("X-Battery-Level", "42")
	c.Set("request_id", "req-1")

	logError(zap.New(core), c, upstreamErr{}, "dashboard failed", map[string]interface{}{"status_code": 502})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "dashboard failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "/api/dashboard", fields["path"])
	assert.Equal(t, "42", fields["battery_level"])
	assert.Equal(t, "upstreamErr", fields["error_type"])
	assert.EqualValues(t, 502, fields["status_code"])
}

func TestLogErrorWithoutRequest(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	logError(zap.New(core), context.Background(), upstreamErr{}, "warmup failed", nil)

	require.Equal(t, 1, logs.Len())
	_, hasPath := logs.All()[0].ContextMap()["path"]
	assert.False(t, hasPath)
}
