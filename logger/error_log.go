package logger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys and headers read when an error is logged from a request.
const (
	requestIDKey  = "request_id"
	batteryHeader = "X-Battery-Level"
)

// LogError logs err with the request context carried by ctx, if any.
func LogError(ctx context.Context, err error, message string, metadata map[string]interface{}) {
	logError(GetLogger().Desugar(), ctx, err, message, metadata)
}

// LogHTTPError logs a failed request together with its (redacted) headers.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	metadata := map[string]interface{}{
		"status_code": statusCode,
		"headers":     filterSensitiveHeaders(c.Request.Header),
	}
	LogError(c, err, message, metadata)
}

func logError(log *zap.Logger, ctx context.Context, err error, message string, metadata map[string]interface{}) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_type", getErrorType(err)),
	}

	if ginCtx, ok := ctx.(*gin.Context); ok {
		if id := ginCtx.GetString(requestIDKey); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		fields = append(fields,
			zap.String("path", ginCtx.Request.URL.Path),
			zap.String("method", ginCtx.Request.Method),
			zap.String("ip_address", ginCtx.ClientIP()),
		)
		// The device reports its battery on every image pull.
		if level := ginCtx.GetHeader(batteryHeader); level != "" {
			fields = append(fields, zap.String("battery_level", level))
		}
	}

	if os.Getenv("ENVIRONMENT") != "production" {
		fields = append(fields, zap.String("stack_trace", getStackTrace(4)))
	}

	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	log.Error(message, fields...)
}

// getErrorType returns the dynamic type name of the innermost error.
func getErrorType(err error) string {
	if err == nil {
		return ""
	}

	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}

	errType := fmt.Sprintf("%T", err)
	parts := strings.Split(errType, ".")
	return parts[len(parts)-1]
}

func getStackTrace(skip int) string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			builder.WriteString(frame.Function)
			builder.WriteString("\n\t")
			builder.WriteString(frame.File)
			builder.WriteString(":")
			builder.WriteString(strconv.Itoa(frame.Line))
			builder.WriteString("\n")
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// filterSensitiveHeaders redacts credentials before headers are logged.
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string)

	for name, values := range headers {
		lower := strings.ToLower(name)
		if lower == "authorization" || lower == "cookie" ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") {
			filtered[name] = "[REDACTED]"
			continue
		}

		if len(values) > 0 {
			filtered[name] = values[0]
		}
	}

	return filtered
}
