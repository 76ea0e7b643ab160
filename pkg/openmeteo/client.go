// Package openmeteo is a minimal client for the keyless Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/NomadCrew/school-dashboard/logger"
	"golang.org/x/time/rate"
)

const openMeteoAPIBaseURL = "https://api.open-meteo.com"

// hourlyVariables is the fixed set of series requested from /v1/forecast.
const hourlyVariables = "temperature_2m,apparent_temperature,dew_point_2m,relative_humidity_2m," +
	"pressure_msl,wind_speed_10m,wind_gusts_10m,wind_direction_10m,cloud_cover," +
	"precipitation,precipitation_probability,uv_index,visibility,weather_code,is_day"

// ClientInterface defines the interface for Open-Meteo client operations
type ClientInterface interface {
	Hourly(ctx context.Context, latitude, longitude float64, hours int) (*ForecastResponse, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ClientInterface = (*Client)(nil)

// ForecastResponse mirrors /v1/forecast with timeformat=unixtime.
type ForecastResponse struct {
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	Elevation        float64      `json:"elevation"`
	Timezone         string       `json:"timezone"`
	UTCOffsetSeconds int          `json:"utc_offset_seconds"`
	Hourly           HourlySeries `json:"hourly"`
}

// HourlySeries holds parallel arrays indexed by hour. Values may be null.
type HourlySeries struct {
	Time                     []int64    `json:"time"`
	Temperature2m            []*float64 `json:"temperature_2m"`
	ApparentTemperature      []*float64 `json:"apparent_temperature"`
	DewPoint2m               []*float64 `json:"dew_point_2m"`
	RelativeHumidity2m       []*float64 `json:"relative_humidity_2m"`
	PressureMSL              []*float64 `json:"pressure_msl"`
	WindSpeed10m             []*float64 `json:"wind_speed_10m"`
	WindGusts10m             []*float64 `json:"wind_gusts_10m"`
	WindDirection10m         []*float64 `json:"wind_direction_10m"`
	CloudCover               []*float64 `json:"cloud_cover"`
	Precipitation            []*float64 `json:"precipitation"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	UVIndex                  []*float64 `json:"uv_index"`
	Visibility               []*float64 `json:"visibility"`
	WeatherCode              []*int     `json:"weather_code"`
	IsDay                    []*int     `json:"is_day"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a self-hosted instance or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit bounds outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    openMeteoAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hourly fetches the next hours of forecast starting at the current hour.
func (c *Client) Hourly(ctx context.Context, latitude, longitude float64, hours int) (*ForecastResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%f", latitude))
	params.Add("longitude", fmt.Sprintf("%f", longitude))
	params.Add("hourly", hourlyVariables)
	params.Add("forecast_hours", fmt.Sprintf("%d", hours))
	params.Add("timeformat", "unixtime")
	params.Add("timezone", "auto")
	params.Add("wind_speed_unit", "ms")

	log := logger.GetLogger()
	log.Debugw("Requesting Open-Meteo forecast",
		"lat", latitude,
		"lon", longitude,
		"params", params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather API error: %s", resp.Status)
	}

	var forecast ForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &forecast, nil
}
