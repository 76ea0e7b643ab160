package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetIsSingleton(t *testing.T) {
	ResetForTesting()
	assert.Same(t, Get(), Get())
}

func TestCollectorsRegisterOnFreshRegistry(t *testing.T) {
	reg := ResetForTesting()
	m := Get()

	m.CacheRequests.WithLabelValues("weather", "hit").Inc()
	m.CacheRequests.WithLabelValues("weather", "hit").Inc()
	m.BatteryLevel.Set(87)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("weather", "hit")))
	assert.Equal(t, 87.0, testutil.ToFloat64(m.BatteryLevel))

	count, err := testutil.GatherAndCount(reg, "dashboard_cache_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
