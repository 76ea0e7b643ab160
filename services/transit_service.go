package services

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/internal/cache"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/pkg/bvg"
	"github.com/NomadCrew/school-dashboard/types"
	"go.uber.org/zap"
)

// TransitServiceInterface is what the dashboard needs from the transit side.
type TransitServiceInterface interface {
	GetDepartures(ctx context.Context) (*types.DepartureBoard, error)
}

// TransitService serves the departure board for the configured stop and
// direction. Upstream bodies are cached verbatim; empty boards never are.
type TransitService struct {
	client bvg.ClientInterface
	cache  *cache.HourlyCache
	ttl    time.Duration
	query  bvg.DeparturesQuery
	log    *zap.SugaredLogger
}

var _ TransitServiceInterface = (*TransitService)(nil)

func NewTransitService(client bvg.ClientInterface, c *cache.HourlyCache, ttl time.Duration, cfg config.TransitConfig) *TransitService {
	return &TransitService{
		client: client,
		cache:  c,
		ttl:    ttl,
		query: bvg.DeparturesQuery{
			StopID:          cfg.StopID,
			DirectionStopID: cfg.DirectionStopID,
			DurationMinutes: cfg.DurationMinutes,
			BusOnly:         true,
		},
		log: logger.GetLogger(),
	}
}

// NewBVGClient builds the transport.rest client from configuration.
func NewBVGClient(cfg config.TransitConfig) *bvg.Client {
	return bvg.NewClient(
		bvg.WithBaseURL(cfg.BaseURL),
		bvg.WithTimeout(cfg.Timeout()),
		bvg.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst))
}

func (s *TransitService) GetDepartures(ctx context.Context) (*types.DepartureBoard, error) {
	key := s.cache.Key(cache.TagTransit)

	if raw, ok := s.cache.GetRaw(ctx, sourceTransit, key); ok {
		board, err := bvg.Decode(raw)
		if err == nil {
			return board, nil
		}
		s.log.Warnw("Discarding undecodable cached departures", "key", key, "error", err)
	}

	q := s.query
	q.When = s.cache.Now()

	start := time.Now()
	raw, board, err := s.client.Departures(ctx, q)
	if err != nil {
		observeUpstream(sourceTransit, start, "error")
		s.log.Errorw("Error fetching BVG data", "stop", q.StopID, "error", err)
		return nil, fmt.Errorf("departures for stop %s: %w: %w", q.StopID, ErrUpstreamFetch, err)
	}

	// The API answers with an empty list during strikes and outages. Caching
	// that would blank the board for the rest of the hour.
	if len(board.Departures) == 0 {
		observeUpstream(sourceTransit, start, "empty")
		s.log.Warnw("No departures available", "stop", q.StopID)
		return nil, fmt.Errorf("departures for stop %s: %w", q.StopID, ErrNoDepartures)
	}
	observeUpstream(sourceTransit, start, "ok")

	s.cache.Put(ctx, sourceTransit, key, raw, s.ttl)
	return board, nil
}
