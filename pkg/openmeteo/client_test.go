package openmeteo

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

func TestHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "24", q.Get("forecast_hours"))
		assert.Equal(t, "unixtime", q.Get("timeformat"))
		assert.Contains(t, q.Get("hourly"), "weather_code")
		assert.Contains(t, q.Get("hourly"), "is_day")

		_, _ = w.Write([]byte(`{
			"latitude": 52.52, "longitude": 13.41, "elevation": 38.0,
			"timezone": "Europe/Berlin", "utc_offset_seconds": 7200,
			"hourly": {
				"time": [1792054800, 1792058400],
				"temperature_2m": [12.5, null],
				"weather_code": [3, 61],
				"is_day": [1, 0]
			}
		}`))
	}))
	defer srv.Close()

	resp, err := NewClient(WithBaseURL(srv.URL)).Hourly(context.Background(), 52.52, 13.405, 24)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", resp.Timezone)
	assert.Equal(t, 7200, resp.UTCOffsetSeconds)
	require.Len(t, resp.Hourly.Time, 2)
	require.NotNil(t, resp.Hourly.Temperature2m[0])
	assert.Equal(t, 12.5, *resp.Hourly.Temperature2m[0])
	assert.Nil(t, resp.Hourly.Temperature2m[1])
	assert.Equal(t, 61, *resp.Hourly.WeatherCode[1])
	assert.Empty(t, resp.Hourly.Visibility)
}

func TestHourly_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":true,"reason":"bad"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Hourly(context.Background(), 52.52, 13.405, 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestHourly_Accepts2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = w.Write([]byte(`{"timezone": "Europe/Berlin", "hourly": {"time": [1792054800]}}`))
	}))
	defer srv.Close()

	resp, err := NewClient(WithBaseURL(srv.URL)).Hourly(context.Background(), 52.52, 13.405, 24)
	require.NoError(t, err)
	assert.Len(t, resp.Hourly.Time, 1)
}
