package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/school-dashboard/internal/metrics"
	"github.com/NomadCrew/school-dashboard/internal/render"
	"github.com/NomadCrew/school-dashboard/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard() *types.DepartureBoard {
	board := &types.DepartureBoard{}
	for i := 0; i < 3; i++ {
		when := time.Date(2026, 10, 15, 7, 12+10*i, 0, 0, time.UTC)
		board.Departures = append(board.Departures, types.Departure{
			When:      &when,
			Direction: "S Schöneweide",
			Line:      types.Line{Name: "M46"},
		})
	}
	return board
}

func TestDashboardServiceSnapshot(t *testing.T) {
	now := time.Date(2026, 10, 15, 7, 7, 0, 0, time.UTC)
	weather := hourlySnapshot(24)
	board := testBoard()

	svc := NewDashboardService(
		stubWeather{snapshot: weather},
		stubTransit{board: board},
		stubTimetable{html: "<tr><td>08:00</td></tr>"},
		render.NewRenderer(time.UTC))
	svc.now = fixedClock(now)

	snapshot, err := svc.Snapshot(context.Background(), "")
	require.NoError(t, err)

	assert.Same(t, weather, snapshot.Weather)
	assert.Same(t, board, snapshot.Departures)
	assert.Equal(t, "<tr><td>08:00</td></tr>", string(snapshot.TimetableHTML))
	assert.Equal(t, types.DefaultBatteryLevel, snapshot.BatteryLevel)
	assert.Equal(t, now, snapshot.GeneratedAt)

	snapshot, err = svc.Snapshot(context.Background(), "87")
	require.NoError(t, err)
	assert.Equal(t, "87", snapshot.BatteryLevel)
}

func TestDashboardServiceRenderHTML(t *testing.T) {
	metrics.ResetForTesting()

	svc := NewDashboardService(
		stubWeather{snapshot: hourlySnapshot(24)},
		stubTransit{board: testBoard()},
		stubTimetable{html: "<tr><td>08:00</td></tr>"},
		render.NewRenderer(time.UTC))
	svc.now = fixedClock(time.Date(2026, 10, 15, 7, 7, 0, 0, time.UTC))

	html, err := svc.RenderHTML(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "07:32")
	assert.Contains(t, html, "Last updated: 07:07 | 🪫 -99")
}

func TestDashboardServiceFailsWithoutPartialData(t *testing.T) {
	tests := []struct {
		name    string
		weather stubWeather
		transit stubTransit
		table   stubTimetable
		wantErr error
	}{
		{
			name:    "weather upstream",
			weather: stubWeather{err: ErrUpstreamFetch},
			transit: stubTransit{board: testBoard()},
			wantErr: ErrUpstreamFetch,
		},
		{
			name:    "empty departures",
			weather: stubWeather{snapshot: hourlySnapshot(24)},
			transit: stubTransit{err: ErrNoDepartures},
			wantErr: ErrNoDepartures,
		},
		{
			name:    "timetable",
			weather: stubWeather{snapshot: hourlySnapshot(24)},
			transit: stubTransit{board: testBoard()},
			table:   stubTimetable{err: errTimetable},
			wantErr: errTimetable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics.ResetForTesting()
			svc := NewDashboardService(tt.weather, tt.transit, tt.table, render.NewRenderer(time.UTC))

			html, err := svc.RenderHTML(context.Background(), "50")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, html)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Get().PipelineFailures.WithLabelValues("fetch")))
		})
	}
}

var errTimetable = errors.New("timetable broken")

func TestDashboardServiceInsufficientWeather(t *testing.T) {
	metrics.ResetForTesting()
	svc := NewDashboardService(
		stubWeather{snapshot: hourlySnapshot(5)},
		stubTransit{board: testBoard()},
		stubTimetable{},
		render.NewRenderer(time.UTC))

	_, err := svc.RenderHTML(context.Background(), "")
	assert.ErrorIs(t, err, render.ErrInsufficientData)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Get().PipelineFailures.WithLabelValues("render_html")))
}
