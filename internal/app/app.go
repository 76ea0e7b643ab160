// Package app wires configuration into the store, services and handlers
// shared by the HTTP server and the snapshot tool.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/handlers"
	"github.com/NomadCrew/school-dashboard/internal/cache"
	"github.com/NomadCrew/school-dashboard/internal/render"
	"github.com/NomadCrew/school-dashboard/internal/timetable"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/router"
	"github.com/NomadCrew/school-dashboard/services"
	"github.com/NomadCrew/school-dashboard/store"
	"github.com/NomadCrew/school-dashboard/store/memory"
	redisstore "github.com/NomadCrew/school-dashboard/store/redis"
	"github.com/gin-gonic/gin"
)

// App holds the assembled service graph.
type App struct {
	Config    *config.Config
	Location  *time.Location
	Store     store.KVStore
	Dashboard *services.DashboardService
	Images    *services.ImageService
	Battery   *services.BatteryService
	Health    *services.HealthService

	closers []func() error
}

// Option adjusts the graph before services are built.
type Option func(*options)

type options struct {
	store   store.KVStore
	shooter services.Screenshotter
	now     func() time.Time
}

// WithStore replaces the configured KV backend.
func WithStore(kv store.KVStore) Option {
	return func(o *options) { o.store = kv }
}

// WithScreenshotter replaces the headless Chrome screenshotter.
func WithScreenshotter(s services.Screenshotter) Option {
	return func(o *options) { o.shooter = s }
}

// WithClock fixes the clock used for cache buckets and the timetable day.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewStore opens the configured KV backend. The returned func releases it.
func NewStore(ctx context.Context, cfg *config.Config) (store.KVStore, func() error, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		return memory.NewKVStore(), func() error { return nil }, nil
	case config.CacheBackendRedis:
		client := redisstore.NewClient(cfg)
		kv := redisstore.NewKVStore(client)
		if err := kv.Ping(ctx); err != nil {
			// The dashboard still renders without a cache, just slower.
			logger.GetLogger().Warnw("Redis not reachable at startup, continuing",
				"address", cfg.Redis.Address,
				"error", err)
		}
		return kv, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// New builds every service from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location.Load()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Location: loc}
	built := false
	defer func() {
		if !built {
			_ = a.Close()
		}
	}()

	kv := o.store
	if kv == nil {
		var closeStore func() error
		kv, closeStore, err = NewStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closeStore)
	}
	a.Store = kv

	table, err := timetable.Load(cfg.Timetable.File)
	if err != nil {
		return nil, err
	}

	provider, err := services.NewWeatherProvider(cfg, loc)
	if err != nil {
		return nil, err
	}

	hourly := cache.NewWithClock(kv, loc, o.now)
	weather := services.NewWeatherService(provider, hourly, cfg.Cache.WeatherTTL())
	transit := services.NewTransitService(services.NewBVGClient(cfg.Transit), hourly, cfg.Cache.TransitTTL(), cfg.Transit)
	today := timetable.NewProviderWithClock(table, loc, o.now)

	a.Dashboard = services.NewDashboardService(weather, transit, today, render.NewRenderer(loc)).WithClock(o.now)

	shooter := o.shooter
	if shooter == nil {
		shooter = services.NewChromeScreenshotter(cfg.Screenshot)
	}
	a.Images = services.NewImageService(a.Dashboard, shooter, cfg.Screenshot)
	a.Battery = services.NewBatteryService(kv)
	a.Health = services.NewHealthService(kv, cfg.Server.Version)

	built = true
	return a, nil
}

// Router returns the HTTP surface over the graph.
func (a *App) Router() *gin.Engine {
	return router.SetupRouter(router.Dependencies{
		Config:           a.Config,
		DashboardHandler: handlers.NewDashboardHandler(a.Dashboard, a.Images),
		BatteryHandler:   handlers.NewBatteryHandler(a.Battery),
		HealthHandler:    handlers.NewHealthHandler(a.Health, a.Battery),
	})
}

// Close releases the store connection.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
