// Package qweather is a minimal client for the QWeather 24-hour forecast API.
package qweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NomadCrew/school-dashboard/logger"
	"golang.org/x/time/rate"
)

const (
	qweatherAPIBaseURL = "https://devapi.qweather.com"
	apiKeyHeader       = "X-QW-Api-Key"
)

// ClientInterface defines the interface for QWeather client operations
type ClientInterface interface {
	Hourly24h(ctx context.Context, latitude, longitude float64) (*HourlyResponse, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ClientInterface = (*Client)(nil)

// HourlyResponse mirrors /v7/weather/24h. Every numeric field arrives as a string.
type HourlyResponse struct {
	Code       string   `json:"code"`
	UpdateTime string   `json:"updateTime"`
	FxLink     string   `json:"fxLink"`
	Hourly     []Hourly `json:"hourly"`
}

type Hourly struct {
	FxTime    string `json:"fxTime"`
	Temp      string `json:"temp"`
	Icon      string `json:"icon"`
	Text      string `json:"text"`
	Wind360   string `json:"wind360"`
	WindDir   string `json:"windDir"`
	WindScale string `json:"windScale"`
	WindSpeed string `json:"windSpeed"`
	Humidity  string `json:"humidity"`
	Pop       string `json:"pop"`
	Precip    string `json:"precip"`
	Pressure  string `json:"pressure"`
	Cloud     string `json:"cloud"`
	Dew       string `json:"dew"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. the paid API or a test server.
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

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    qweatherAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hourly24h fetches the next 24 hourly forecasts for the given coordinates in metric units.
func (c *Client) Hourly24h(ctx context.Context, latitude, longitude float64) (*HourlyResponse, error) {
	log := logger.GetLogger()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	params := url.Values{}
	// QWeather expects "longitude,latitude".
	params.Add("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(longitude, 'f', 2, 64),
		strconv.FormatFloat(latitude, 'f', 2, 64)))
	params.Add("unit", "m")

	endpoint := fmt.Sprintf("%s/v7/weather/24h?%s", c.baseURL, params.Encode())
	log.Debugw("Requesting QWeather forecast",
		"latitude", latitude,
		"longitude", longitude,
		"key", logger.MaskSensitiveString(c.apiKey, 3, 3))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Keep the key out of the URL: transport errors quote it verbatim.
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qweather API returned status: %d", resp.StatusCode)
	}

	var out HourlyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	// Application-level failures (bad key, quota) still come back as HTTP 200.
	if out.Code != "" && out.Code != "200" {
		return nil, fmt.Errorf("qweather API returned code: %s", out.Code)
	}

	log.Debugw("QWeather response decoded", "entries", len(out.Hourly), "updateTime", out.UpdateTime)
	return &out, nil
}
