package services

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/NomadCrew/school-dashboard/internal/metrics"
	"github.com/NomadCrew/school-dashboard/internal/render"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TimetableSource yields today's timetable fragment.
type TimetableSource interface {
	Today() (template.HTML, error)
}

// DashboardRenderer turns a snapshot into an HTML document.
type DashboardRenderer interface {
	Render(s *types.DashboardSnapshot) (string, error)
}

// DashboardServiceInterface produces the dashboard HTML for a battery level.
type DashboardServiceInterface interface {
	RenderHTML(ctx context.Context, batteryLevel string) (string, error)
}

// DashboardService gathers all sources for one render.
type DashboardService struct {
	weather   WeatherServiceInterface
	transit   TransitServiceInterface
	timetable TimetableSource
	renderer  DashboardRenderer
	now       func() time.Time
	log       *zap.SugaredLogger
}

var _ DashboardServiceInterface = (*DashboardService)(nil)

func NewDashboardService(weather WeatherServiceInterface, transit TransitServiceInterface, timetable TimetableSource, renderer DashboardRenderer) *DashboardService {
	return &DashboardService{
		weather:   weather,
		transit:   transit,
		timetable: timetable,
		renderer:  renderer,
		now:       time.Now,
		log:       logger.GetLogger(),
	}
}

// WithClock replaces the clock stamped on snapshots.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Snapshot fetches weather, departures and the timetable concurrently. Any
// failure fails the whole snapshot; partial dashboards are never produced.
func (s *DashboardService) Snapshot(ctx context.Context, batteryLevel string) (*types.DashboardSnapshot, error) {
	if batteryLevel == "" {
		batteryLevel = types.DefaultBatteryLevel
	}
	snapshot := &types.DashboardSnapshot{
		BatteryLevel: batteryLevel,
		GeneratedAt:  s.now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weather, err := s.weather.GetWeather(gctx)
		if err != nil {
			return err
		}
		snapshot.Weather = weather
		return nil
	})
	g.Go(func() error {
		board, err := s.transit.GetDepartures(gctx)
		if err != nil {
			return err
		}
		snapshot.Departures = board
		return nil
	})
	g.Go(func() error {
		html, err := s.timetable.Today()
		if err != nil {
			return fmt.Errorf("timetable: %w", err)
		}
		snapshot.TimetableHTML = html
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RenderHTML builds the dashboard document.
func (s *DashboardService) RenderHTML(ctx context.Context, batteryLevel string) (string, error) {
	start := time.Now()
	snapshot, err := s.Snapshot(ctx, batteryLevel)
	if err != nil {
		metrics.Get().PipelineFailures.WithLabelValues("fetch").Inc()
		return "", err
	}

	html, err := s.renderer.Render(snapshot)
	if err != nil {
		metrics.Get().PipelineFailures.WithLabelValues("render_html").Inc()
		s.log.Errorw("Failed to render dashboard", "error", err)
		return "", err
	}
	metrics.Get().PipelineDuration.WithLabelValues("render_html").Observe(time.Since(start).Seconds())
	return html, nil
}

var _ DashboardRenderer = (*render.Renderer)(nil)
