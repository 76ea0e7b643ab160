package config

import (
	"testing"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
	}{
		{
			name: "qweather with key",
			envVars: map[string]string{
				"WEATHER_API_KEY": "test-key-123456",
				"PORT":            "9090",
			},
		},
		{
			name: "legacy qweather key variable",
			envVars: map[string]string{
				"QWEATHER_API_KEY": "test-key-123456",
			},
		},
		{
			name: "openmeteo needs no key",
			envVars: map[string]string{
				"WEATHER_PROVIDER": "openmeteo",
				"CACHE_BACKEND":    "memory",
			},
		},
		{
			name:        "qweather without key",
			envVars:     map[string]string{},
			expectError: true,
		},
		{
			name: "unknown provider",
			envVars: map[string]string{
				"WEATHER_PROVIDER": "darksky",
			},
			expectError: true,
		},
		{
			name: "invalid timezone",
			envVars: map[string]string{
				"WEATHER_PROVIDER": "openmeteo",
				"TIMEZONE":         "Mars/Olympus_Mons",
			},
			expectError: true,
		},
		{
			name: "latitude out of range",
			envVars: map[string]string{
				"WEATHER_PROVIDER": "openmeteo",
				"WEATHER_LATITUDE": "95",
			},
			expectError: true,
		},
		{
			name: "unknown screenshot mode",
			envVars: map[string]string{
				"WEATHER_PROVIDER": "openmeteo",
				"SCREENSHOT_MODE":  "pdf",
			},
			expectError: true,
		},
		{
			name: "url mode without internal url",
			envVars: map[string]string{
				"WEATHER_PROVIDER": "openmeteo",
				"SCREENSHOT_MODE":  "url",
			},
			expectError: true,
		},
		{
			name: "url mode with non-http internal url",
			envVars: map[string]string{
				"WEATHER_PROVIDER":        "openmeteo",
				"SCREENSHOT_MODE":         "url",
				"SCREENSHOT_INTERNAL_URL": "file:///etc/passwd",
			},
			expectError: true,
		},
		{
			name: "url mode with internal url",
			envVars: map[string]string{
				"WEATHER_PROVIDER":        "openmeteo",
				"SCREENSHOT_MODE":         "url",
				"SCREENSHOT_INTERNAL_URL": "http://127.0.0.1:8080/api/internal/dashboard",
			},
		},
		{
			name: "zero viewport",
			envVars: map[string]string{
				"WEATHER_PROVIDER":  "openmeteo",
				"SCREENSHOT_HEIGHT": "0",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Blank out everything LoadConfig reads so the host environment does not leak in.
			for _, key := range []string{
				"PORT", "WEATHER_API_KEY", "QWEATHER_API_KEY", "WEATHER_PROVIDER",
				"CACHE_BACKEND", "TIMEZONE", "SCREENSHOT_MODE", "SCREENSHOT_HEIGHT",
				"WEATHER_LATITUDE", "SCREENSHOT_INTERNAL_URL",
			} {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if port, ok := tt.envVars["PORT"]; ok {
				assert.Equal(t, port, cfg.Server.Port)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", "openmeteo")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Location.Timezone)
	assert.Equal(t, 3600, cfg.Cache.WeatherTTLSeconds)
	assert.Equal(t, 3600, cfg.Cache.TransitTTLSeconds)
	assert.Equal(t, "900044104", cfg.Transit.StopID)
	assert.Equal(t, "900003104", cfg.Transit.DirectionStopID)
	assert.Equal(t, 60, cfg.Transit.DurationMinutes)
	assert.Equal(t, "https://v6.bvg.transport.rest", cfg.Transit.BaseURL)
	assert.Equal(t, 600, cfg.Screenshot.Width)
	assert.Equal(t, 800, cfg.Screenshot.Height)
	assert.Equal(t, 30, cfg.Screenshot.NavigationTimeoutSeconds)
	assert.Equal(t, ScreenshotModeInline, cfg.Screenshot.Mode)
	assert.Equal(t, 2, cfg.Screenshot.MaxConcurrent)
	assert.Equal(t, 10, cfg.Weather.TimeoutSeconds)
}

func TestLocationConfigLoad(t *testing.T) {
	loc, err := LocationConfig{Timezone: "Asia/Shanghai"}.Load()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())

	_, err = LocationConfig{Timezone: "nowhere"}.Load()
	assert.Error(t, err)
}
