package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NomadCrew/school-dashboard/internal/cache"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/types"
	"go.uber.org/zap"
)

// WeatherServiceInterface is what the dashboard needs from the weather side.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context) (*types.WeatherSnapshot, error)
}

// WeatherService serves the current hour's forecast, calling the provider at
// most once per hour bucket while the cache holds.
type WeatherService struct {
	provider WeatherProvider
	cache    *cache.HourlyCache
	ttl      time.Duration
	log      *zap.SugaredLogger
}

var _ WeatherServiceInterface = (*WeatherService)(nil)

func NewWeatherService(provider WeatherProvider, c *cache.HourlyCache, ttl time.Duration) *WeatherService {
	return &WeatherService{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		log:      logger.GetLogger(),
	}
}

func (s *WeatherService) GetWeather(ctx context.Context) (*types.WeatherSnapshot, error) {
	key := s.cache.Key(cache.TagWeather)

	if raw, ok := s.cache.GetRaw(ctx, sourceWeather, key); ok {
		var snapshot types.WeatherSnapshot
		err := json.Unmarshal(raw, &snapshot)
		if err == nil {
			return &snapshot, nil
		}
		s.log.Warnw("Discarding undecodable cached weather", "key", key, "error", err)
	}

	s.log.Infow("Cached weather not found, hitting network", "provider", s.provider.Name(), "key", key)
	start := time.Now()
	snapshot, err := s.provider.Fetch(ctx)
	if err != nil {
		observeUpstream(sourceWeather, start, "error")
		s.log.Errorw("Failed to fetch weather", "provider", s.provider.Name(), "error", err)
		return nil, fmt.Errorf("weather from %s: %w: %w", s.provider.Name(), ErrUpstreamFetch, err)
	}
	observeUpstream(sourceWeather, start, "ok")

	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Errorw("Failed to marshal weather snapshot", "error", err)
		return snapshot, nil
	}
	s.cache.Put(ctx, sourceWeather, key, payload, s.ttl)

	return snapshot, nil
}
