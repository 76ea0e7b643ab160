// Package cache implements the hour-bucketed read-through cache that sits in
// front of the weather and transit upstreams.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/NomadCrew/school-dashboard/internal/metrics"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/store"
)

// Key prefixes for the two cached sources.
const (
	TagWeather = "WEATHER_"
	TagTransit = "BVG_"
)

const bucketLayout = "2006-01-02T15:00:00"

// HourBucketKey returns tag followed by the start of now's wall-clock hour in loc.
// Two instants in the same local hour yield the same key.
func HourBucketKey(tag string, now time.Time, loc *time.Location) string {
	local := now.In(loc)
	// Built from calendar fields rather than Truncate so zones with
	// non-whole-hour offsets still bucket on the local hour.
	start := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
	return tag + start.Format(bucketLayout)
}

// HourlyCache is a thin policy layer over a KVStore: keys come from the clock,
// store failures degrade to misses, and every lookup is counted.
type HourlyCache struct {
	kv  store.KVStore
	loc *time.Location
	now func() time.Time
}

// New creates a cache bound to loc using the wall clock.
func New(kv store.KVStore, loc *time.Location) *HourlyCache {
	return NewWithClock(kv, loc, time.Now)
}

// NewWithClock creates a cache that reads the current time from now.
func NewWithClock(kv store.KVStore, loc *time.Location, now func() time.Time) *HourlyCache {
	return &HourlyCache{kv: kv, loc: loc, now: now}
}

// Key returns the bucket key for tag at the current instant.
func (c *HourlyCache) Key(tag string) string {
	return HourBucketKey(tag, c.now(), c.loc)
}

// Now returns the cache clock's current time in the configured location.
func (c *HourlyCache) Now() time.Time {
	return c.now().In(c.loc)
}

// Location returns the timezone buckets are computed in.
func (c *HourlyCache) Location() *time.Location {
	return c.loc
}

// GetRaw returns the payload stored under key. Store errors are logged and
// reported as a miss so callers fall through to the upstream.
func (c *HourlyCache) GetRaw(ctx context.Context, source, key string) ([]byte, bool) {
	m := metrics.Get()

	payload, err := c.kv.Get(ctx, key)
	switch {
	case err == nil:
		m.CacheRequests.WithLabelValues(source, "hit").Inc()
		logger.GetLogger().Debugw("Cache hit", "source", source, "key", key)
		return payload, true
	case errors.Is(err, store.ErrNotFound):
		m.CacheRequests.WithLabelValues(source, "miss").Inc()
		logger.GetLogger().Debugw("Cache miss", "source", source, "key", key)
		return nil, false
	default:
		m.CacheRequests.WithLabelValues(source, "error").Inc()
		logger.GetLogger().Warnw("Cache read failed, treating as miss",
			"source", source,
			"key", key,
			"error", err)
		return nil, false
	}
}

// Put stores payload under key for ttl. Failures are logged and swallowed:
// the caller already holds fresh data and should still return it.
func (c *HourlyCache) Put(ctx context.Context, source, key string, payload []byte, ttl time.Duration) {
	if err := c.kv.Set(ctx, key, payload, ttl); err != nil {
		logger.GetLogger().Errorw("Cache write failed",
			"source", source,
			"key", key,
			"error", err)
	}
}
