package main

import (
	"path/filepath"
	"testing"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestRunReturnsErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.png")

	t.Run("unknown flag", func(t *testing.T) {
		err := run([]string{"-bogus"})
		require.Error(t, err)
		assert.NoFileExists(t, out)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		t.Setenv("WEATHER_PROVIDER", "darksky")

		err := run([]string{"-out", out})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load config")
		assert.NoFileExists(t, out)
	})

	t.Run("missing timetable file", func(t *testing.T) {
		t.Setenv("WEATHER_PROVIDER", "openmeteo")
		t.Setenv("CACHE_BACKEND", "memory")
		t.Setenv("TIMETABLE_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

		err := run([]string{"-out", out, "-html"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initialize services")
		assert.NoFileExists(t, out)
	})
}
