package qweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

const sampleBody = `{
  "code": "200",
  "updateTime": "2026-10-15T09:35+08:00",
  "fxLink": "https://www.qweather.com/weather/beijing-101010100.html",
  "hourly": [
    {"fxTime": "2026-10-15T10:00+08:00", "temp": "18", "icon": "101", "text": "多云",
     "wind360": "90", "windDir": "东风", "windScale": "1-2", "windSpeed": "6",
     "humidity": "54", "pop": "7", "precip": "0.0", "pressure": "1016", "cloud": "91", "dew": "9"}
  ]
}`

func TestHourly24h(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/weather/24h", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"location": q.Get("location"),
			"key":      q.Get("key"),
			"header":   r.Header.Get("X-QW-Api-Key"),
			"unit":     q.Get("unit"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := NewClient("secret-key", WithBaseURL(srv.URL), WithRateLimit(10, 1))
	resp, err := c.Hourly24h(context.Background(), 39.9042, 116.4074)
	require.NoError(t, err)

	assert.Equal(t, "116.41,39.90", gotQuery["location"])
	assert.Empty(t, gotQuery["key"])
	assert.Equal(t, "secret-key", gotQuery["header"])
	assert.Equal(t, "m", gotQuery["unit"])

	require.Len(t, resp.Hourly, 1)
	assert.Equal(t, "2026-10-15T09:35+08:00", resp.UpdateTime)
	assert.Equal(t, "101", resp.Hourly[0].Icon)
	assert.Equal(t, "18", resp.Hourly[0].Temp)
}

func TestHourly24h_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http error", status: http.StatusInternalServerError, body: "", wantErr: "status: 500"},
		{name: "api code", status: http.StatusOK, body: `{"code":"401"}`, wantErr: "code: 401"},
		{name: "bad json", status: http.StatusOK, body: `{"code":`, wantErr: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("k", WithBaseURL(srv.URL)).Hourly24h(context.Background(), 52.52, 13.405)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHourly24h_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("k", WithBaseURL("http://127.0.0.1:1"), WithRateLimit(0.001, 1)).Hourly24h(ctx, 0, 0)
	assert.Error(t, err)
}

func TestHourly24h_AcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	resp, err := NewClient("k", WithBaseURL(srv.URL)).Hourly24h(context.Background(), 52.52, 13.405)
	require.NoError(t, err)
	assert.Len(t, resp.Hourly, 1)
}

func TestHourly24h_TransportErrorHidesKey(t *testing.T) {
	_, err := NewClient("SUPERSECRETKEY123", WithBaseURL("http://127.0.0.1:1")).
		Hourly24h(context.Background(), 52.52, 13.405)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY123")
	assert.Contains(t, err.Error(), "failed to execute request")
}
