package services

import (
	"bytes"
	"context"
	"html/template"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/pkg/bvg"
	"github.com/NomadCrew/school-dashboard/pkg/openmeteo"
	"github.com/NomadCrew/school-dashboard/pkg/qweather"
	"github.com/NomadCrew/school-dashboard/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

type MockQWeatherClient struct {
	mock.Mock
}

func (m *MockQWeatherClient) Hourly24h(ctx context.Context, latitude, longitude float64) (*qweather.HourlyResponse, error) {
	args := m.Called(ctx, latitude, longitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qweather.HourlyResponse), args.Error(1)
}

type MockOpenMeteoClient struct {
	mock.Mock
}

func (m *MockOpenMeteoClient) Hourly(ctx context.Context, latitude, longitude float64, hours int) (*openmeteo.ForecastResponse, error) {
	args := m.Called(ctx, latitude, longitude, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openmeteo.ForecastResponse), args.Error(1)
}

type MockBVGClient struct {
	mock.Mock
}

func (m *MockBVGClient) Departures(ctx context.Context, q bvg.DeparturesQuery) ([]byte, *types.DepartureBoard, error) {
	args := m.Called(ctx, q)
	if args.Get(1) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*types.DepartureBoard), args.Error(2)
}

type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Name() string { return "mock" }

func (m *MockWeatherProvider) Fetch(ctx context.Context) (*types.WeatherSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeatherSnapshot), args.Error(1)
}

type stubWeather struct {
	snapshot *types.WeatherSnapshot
	err      error
}

func (s stubWeather) GetWeather(context.Context) (*types.WeatherSnapshot, error) {
	return s.snapshot, s.err
}

type stubTransit struct {
	board *types.DepartureBoard
	err   error
}

func (s stubTransit) GetDepartures(context.Context) (*types.DepartureBoard, error) {
	return s.board, s.err
}

type stubTimetable struct {
	html template.HTML
	err  error
}

func (s stubTimetable) Today() (template.HTML, error) { return s.html, s.err }

type stubDashboard struct {
	html    string
	err     error
	battery string
}

func (s *stubDashboard) RenderHTML(_ context.Context, batteryLevel string) (string, error) {
	s.battery = batteryLevel
	return s.html, s.err
}

type fakeScreenshotter struct {
	png  []byte
	err  error
	last CaptureRequest
}

func (f *fakeScreenshotter) Capture(_ context.Context, req CaptureRequest) ([]byte, error) {
	f.last = req
	return f.png, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

// colourPNG encodes a w×h RGBA image filled with c.
func colourPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func hourlySnapshot(n int) *types.WeatherSnapshot {
	records := make([]types.ConditionsRecord, n)
	for i := range records {
		records[i] = types.ConditionsRecord{
			Time:        int64(1792051200 + i*3600),
			Icon:        types.IconCloudy,
			Temperature: float64(10 + i),
		}
	}
	return &types.WeatherSnapshot{
		Timezone:  "Europe/Berlin",
		Currently: records[0],
		Hourly:    types.HourlyWeather{Summary: "24-hour forecast", Data: records},
	}
}
