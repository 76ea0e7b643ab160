// Package bvg is a client for the departures endpoint of the BVG transport.rest API
// (https://v6.bvg.transport.rest/api.html).
package bvg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/types"
	"golang.org/x/time/rate"
)

const (
	bvgAPIBaseURL = "https://v6.bvg.transport.rest"
	// whenLayout is the API's accepted ISO 8601 form with a numeric offset.
	whenLayout = "2006-01-02T15:04:05-07:00"
	// maxBodyBytes bounds the response read; a 60 minute window is a few hundred KB at most.
	maxBodyBytes = 4 << 20
)

// DeparturesQuery selects the departures to request.
type DeparturesQuery struct {
	StopID          string
	DirectionStopID string
	When            time.Time
	DurationMinutes int
	BusOnly         bool
}

// ClientInterface defines the interface for BVG client operations
type ClientInterface interface {
	Departures(ctx context.Context, q DeparturesQuery) ([]byte, *types.DepartureBoard, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ClientInterface = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another transport.rest deployment or a test server.
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
// The public instance allows 100 requests per minute.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    bvgAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildDeparturesURL returns the request URL for q. Remarks are always disabled.
func BuildDeparturesURL(baseURL string, q DeparturesQuery) string {
	params := url.Values{}
	if q.DirectionStopID != "" {
		params.Add("direction", q.DirectionStopID)
	}
	params.Add("bus", strconv.FormatBool(q.BusOnly))
	params.Add("when", q.When.Format(whenLayout))
	params.Add("remarks", "false")
	if q.DurationMinutes > 0 {
		params.Add("duration", strconv.Itoa(q.DurationMinutes))
	}
	return fmt.Sprintf("%s/stops/%s/departures?%s", baseURL, url.PathEscape(q.StopID), params.Encode())
}

// Departures returns both the raw response body and its decoded form so callers
// can cache the upstream payload verbatim.
func (c *Client) Departures(ctx context.Context, q DeparturesQuery) ([]byte, *types.DepartureBoard, error) {
	log := logger.GetLogger()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	endpoint := BuildDeparturesURL(c.baseURL, q)
	log.Debugw("Requesting BVG departures", "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	board, err := Decode(body)
	if err != nil {
		return nil, nil, err
	}

	log.Debugw("BVG response decoded", "departures", len(board.Departures))
	return body, board, nil
}

// Decode parses a departures payload as returned by the API or stored in the cache.
func Decode(body []byte) (*types.DepartureBoard, error) {
	var board types.DepartureBoard
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &board, nil
}
