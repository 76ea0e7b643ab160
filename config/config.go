// Package config handles loading and validation of application configuration
// from environment variables and an optional .env file.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/pkg/valueobjects"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Weather providers understood by the weather service.
const (
	WeatherProviderQWeather  = "qweather"
	WeatherProviderOpenMeteo = "openmeteo"
)

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Screenshot modes. Inline renders the HTML in-process and hands it to the browser;
// url makes the browser fetch the internal dashboard route over HTTP.
const (
	ScreenshotModeInline = "inline"
	ScreenshotModeURL    = "url"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// CacheConfig selects the key-value backend and the hour-bucket TTLs.
type CacheConfig struct {
	Backend           string `mapstructure:"BACKEND" yaml:"backend"`
	WeatherTTLSeconds int    `mapstructure:"WEATHER_TTL_SECONDS" yaml:"weather_ttl_seconds"`
	TransitTTLSeconds int    `mapstructure:"TRANSIT_TTL_SECONDS" yaml:"transit_ttl_seconds"`
}

// WeatherTTL returns the weather cache TTL as a duration.
func (c CacheConfig) WeatherTTL() time.Duration {
	return time.Duration(c.WeatherTTLSeconds) * time.Second
}

// TransitTTL returns the transit cache TTL as a duration.
func (c CacheConfig) TransitTTL() time.Duration {
	return time.Duration(c.TransitTTLSeconds) * time.Second
}

// LocationConfig holds the wall-clock timezone used for hour buckets,
// timetable day selection and displayed times.
type LocationConfig struct {
	Timezone string `mapstructure:"TIMEZONE" yaml:"timezone"`
}

// Load resolves the configured timezone.
func (l LocationConfig) Load() (*time.Location, error) {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", l.Timezone, err)
	}
	return loc, nil
}

// UpstreamConfig holds the knobs shared by every upstream HTTP client.
type UpstreamConfig struct {
	BaseURL           string  `mapstructure:"BASE_URL" yaml:"base_url"`
	TimeoutSeconds    int     `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"REQUESTS_PER_SECOND" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"BURST" yaml:"burst"`
}

// Timeout returns the client timeout as a duration.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// WeatherConfig holds the weather provider selection and the fixed location.
type WeatherConfig struct {
	UpstreamConfig `mapstructure:",squash" yaml:",inline"`
	Provider       string  `mapstructure:"PROVIDER" yaml:"provider"`
	APIKey         string  `mapstructure:"API_KEY" yaml:"api_key"`
	Latitude       float64 `mapstructure:"LATITUDE" yaml:"latitude"`
	Longitude      float64 `mapstructure:"LONGITUDE" yaml:"longitude"`
}

// TransitConfig holds the fixed stop/direction pair for the departure board.
type TransitConfig struct {
	UpstreamConfig  `mapstructure:",squash" yaml:",inline"`
	StopID          string `mapstructure:"STOP_ID" yaml:"stop_id"`
	DirectionStopID string `mapstructure:"DIRECTION_STOP_ID" yaml:"direction_stop_id"`
	DurationMinutes int    `mapstructure:"DURATION_MINUTES" yaml:"duration_minutes"`
}

// TimetableConfig points at an optional YAML timetable replacing the built-in one.
type TimetableConfig struct {
	File string `mapstructure:"FILE" yaml:"file"`
}

// ScreenshotConfig holds the headless browser settings.
type ScreenshotConfig struct {
	Mode                     string `mapstructure:"MODE" yaml:"mode"`
	Width                    int    `mapstructure:"WIDTH" yaml:"width"`
	Height                   int    `mapstructure:"HEIGHT" yaml:"height"`
	NavigationTimeoutSeconds int    `mapstructure:"NAVIGATION_TIMEOUT_SECONDS" yaml:"navigation_timeout_seconds"`
	ChromePath               string `mapstructure:"CHROME_PATH" yaml:"chrome_path"`
	// InternalURL is the HTML page the browser loads in url mode. Required
	// in that mode; must be an absolute http(s) URL.
	InternalURL string `mapstructure:"INTERNAL_URL" yaml:"internal_url"`
	// MaxConcurrent caps browsers running at once; extra requests get 429.
	MaxConcurrent int `mapstructure:"MAX_CONCURRENT" yaml:"max_concurrent"`
}

// NavigationTimeout returns the navigation bound as a duration.
func (s ScreenshotConfig) NavigationTimeout() time.Duration {
	return time.Duration(s.NavigationTimeoutSeconds) * time.Second
}

// Config aggregates all application configuration sections.
type Config struct {
	Server     ServerConfig     `mapstructure:"SERVER" yaml:"server"`
	Redis      RedisConfig      `mapstructure:"REDIS" yaml:"redis"`
	Cache      CacheConfig      `mapstructure:"CACHE" yaml:"cache"`
	Location   LocationConfig   `mapstructure:"LOCATION" yaml:"location"`
	Weather    WeatherConfig    `mapstructure:"WEATHER" yaml:"weather"`
	Transit    TransitConfig    `mapstructure:"TRANSIT" yaml:"transit"`
	Timetable  TimetableConfig  `mapstructure:"TIMETABLE" yaml:"timetable"`
	Screenshot ScreenshotConfig `mapstructure:"SCREENSHOT" yaml:"screenshot"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from an optional .env file and environment
// variables using Viper, applies defaults, unmarshals and validates it.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("CACHE.BACKEND", CacheBackendRedis)
	v.SetDefault("CACHE.WEATHER_TTL_SECONDS", 3600)
	v.SetDefault("CACHE.TRANSIT_TTL_SECONDS", 3600)
	v.SetDefault("LOCATION.TIMEZONE", "Europe/Berlin")
	v.SetDefault("WEATHER.PROVIDER", WeatherProviderQWeather)
	v.SetDefault("WEATHER.API_KEY", "")
	v.SetDefault("WEATHER.LATITUDE", 52.5200)
	v.SetDefault("WEATHER.LONGITUDE", 13.4050)
	v.SetDefault("WEATHER.BASE_URL", "")
	v.SetDefault("WEATHER.TIMEOUT_SECONDS", 10)
	v.SetDefault("WEATHER.REQUESTS_PER_SECOND", 1.0)
	v.SetDefault("WEATHER.BURST", 2)
	v.SetDefault("TRANSIT.BASE_URL", "https://v6.bvg.transport.rest")
	v.SetDefault("TRANSIT.STOP_ID", "900044104")
	v.SetDefault("TRANSIT.DIRECTION_STOP_ID", "900003104")
	v.SetDefault("TRANSIT.DURATION_MINUTES", 60)
	v.SetDefault("TRANSIT.TIMEOUT_SECONDS", 10)
	v.SetDefault("TRANSIT.REQUESTS_PER_SECOND", 1.0)
	v.SetDefault("TRANSIT.BURST", 2)
	v.SetDefault("TIMETABLE.FILE", "")
	v.SetDefault("SCREENSHOT.MODE", ScreenshotModeInline)
	v.SetDefault("SCREENSHOT.WIDTH", 600)
	v.SetDefault("SCREENSHOT.HEIGHT", 800)
	v.SetDefault("SCREENSHOT.NAVIGATION_TIMEOUT_SECONDS", 30)
	v.SetDefault("SCREENSHOT.CHROME_PATH", "")
	v.SetDefault("SCREENSHOT.INTERNAL_URL", "")
	v.SetDefault("SCREENSHOT.MAX_CONCURRENT", 2)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Cache config
		{"CACHE.BACKEND", "CACHE_BACKEND"},
		{"CACHE.WEATHER_TTL_SECONDS", "CACHE_WEATHER_TTL_SECONDS"},
		{"CACHE.TRANSIT_TTL_SECONDS", "CACHE_TRANSIT_TTL_SECONDS"},
		// Location
		{"LOCATION.TIMEZONE", "TIMEZONE"},
		// Weather
		{"WEATHER.PROVIDER", "WEATHER_PROVIDER"},
		{"WEATHER.API_KEY", "WEATHER_API_KEY"},
		{"WEATHER.LATITUDE", "WEATHER_LATITUDE"},
		{"WEATHER.LONGITUDE", "WEATHER_LONGITUDE"},
		{"WEATHER.BASE_URL", "WEATHER_BASE_URL"},
		// Transit
		{"TRANSIT.BASE_URL", "TRANSIT_BASE_URL"},
		{"TRANSIT.STOP_ID", "TRANSIT_STOP_ID"},
		{"TRANSIT.DIRECTION_STOP_ID", "TRANSIT_DIRECTION_STOP_ID"},
		{"TRANSIT.DURATION_MINUTES", "TRANSIT_DURATION_MINUTES"},
		// Timetable
		{"TIMETABLE.FILE", "TIMETABLE_FILE"},
		// Screenshot
		{"SCREENSHOT.MODE", "SCREENSHOT_MODE"},
		{"SCREENSHOT.WIDTH", "SCREENSHOT_WIDTH"},
		{"SCREENSHOT.HEIGHT", "SCREENSHOT_HEIGHT"},
		{"SCREENSHOT.NAVIGATION_TIMEOUT_SECONDS", "SCREENSHOT_NAVIGATION_TIMEOUT_SECONDS"},
		{"SCREENSHOT.CHROME_PATH", "CHROME_PATH"},
		{"SCREENSHOT.INTERNAL_URL", "SCREENSHOT_INTERNAL_URL"},
		{"SCREENSHOT.MAX_CONCURRENT", "SCREENSHOT_MAX_CONCURRENT"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}
	// QWEATHER_API_KEY is the legacy name of the key.
	if err := v.BindEnv("WEATHER.API_KEY", "WEATHER_API_KEY", "QWEATHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind WEATHER.API_KEY: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"cache_backend", v.GetString("CACHE.BACKEND"),
		"timezone", v.GetString("LOCATION.TIMEZONE"),
		"weather_provider", v.GetString("WEATHER.PROVIDER"),
		"weather_api_key", logger.MaskSensitiveString(v.GetString("WEATHER.API_KEY"), 3, 3),
		"transit_stop", v.GetString("TRANSIT.STOP_ID"),
		"screenshot_mode", v.GetString("SCREENSHOT.MODE"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch cfg.Cache.Backend {
	case CacheBackendRedis:
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}
		if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
			log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
		}
	case CacheBackendMemory:
		log.Warn("Using in-memory cache; cached upstream data is lost on restart")
	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if cfg.Cache.WeatherTTLSeconds <= 0 || cfg.Cache.TransitTTLSeconds <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if _, err := cfg.Location.Load(); err != nil {
		return err
	}

	if err := validateWeather(&cfg.Weather); err != nil {
		return err
	}
	if err := validateTransit(&cfg.Transit); err != nil {
		return err
	}

	return validateScreenshot(&cfg.Screenshot)
}

// Point returns the configured forecast location.
func (w WeatherConfig) Point() (*valueobjects.GeoPoint, error) {
	return valueobjects.NewGeoPoint(w.Latitude, w.Longitude)
}

func validateWeather(w *WeatherConfig) error {
	switch w.Provider {
	case WeatherProviderQWeather:
		if w.APIKey == "" {
			return fmt.Errorf("weather API key is required for provider %s", w.Provider)
		}
	case WeatherProviderOpenMeteo:
	default:
		return fmt.Errorf("unknown weather provider %q", w.Provider)
	}
	if _, err := w.Point(); err != nil {
		return fmt.Errorf("weather coordinates: %w", err)
	}
	return validateUpstream("weather", &w.UpstreamConfig, false)
}

func validateTransit(t *TransitConfig) error {
	if t.StopID == "" {
		return fmt.Errorf("transit stop id is required")
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("transit duration must be positive")
	}
	return validateUpstream("transit", &t.UpstreamConfig, true)
}

func validateUpstream(name string, u *UpstreamConfig, requireURL bool) error {
	if u.BaseURL == "" {
		if requireURL {
			return fmt.Errorf("%s base URL is required", name)
		}
	} else if _, err := url.ParseRequestURI(u.BaseURL); err != nil {
		return fmt.Errorf("invalid %s base URL '%s': %w", name, u.BaseURL, err)
	}
	if u.TimeoutSeconds <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if u.RequestsPerSecond <= 0 || u.Burst <= 0 {
		return fmt.Errorf("%s rate limit must be positive", name)
	}
	return nil
}

func validateScreenshot(s *ScreenshotConfig) error {
	switch s.Mode {
	case ScreenshotModeInline, ScreenshotModeURL:
	default:
		return fmt.Errorf("unknown screenshot mode %q", s.Mode)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("screenshot viewport must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.NavigationTimeoutSeconds <= 0 {
		return fmt.Errorf("screenshot navigation timeout must be positive")
	}
	if s.MaxConcurrent <= 0 {
		return fmt.Errorf("screenshot max concurrent must be positive, got %d", s.MaxConcurrent)
	}
	if s.Mode == ScreenshotModeURL && s.InternalURL == "" {
		return fmt.Errorf("SCREENSHOT_INTERNAL_URL is required in %s mode", ScreenshotModeURL)
	}
	if s.InternalURL != "" {
		u, err := url.ParseRequestURI(s.InternalURL)
		if err != nil {
			return fmt.Errorf("invalid screenshot internal URL '%s': %w", s.InternalURL, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("screenshot internal URL must be absolute http(s), got '%s'", s.InternalURL)
		}
	}
	return nil
}
