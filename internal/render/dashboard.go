// Package render builds the self-contained HTML page that is screenshotted
// for the e-ink display. Rendering is pure: no I/O, no clock reads.
package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/NomadCrew/school-dashboard/types"
)

// Minimum input sizes the layout indexes into.
const (
	DeparturesShown  = 3
	MinHourlyEntries = 9
)

// ErrInsufficientData is returned when the snapshot cannot fill the fixed layout.
var ErrInsufficientData = errors.New("insufficient data to render dashboard")

//go:embed dashboard.html.tmpl
var dashboardTemplate string

var pageTemplate = template.Must(template.New("dashboard").Parse(dashboardTemplate))

type weatherColumn struct {
	Label       template.HTML
	Glyph       string
	Temperature string
	Summary     string
}

type departureColumn struct {
	Delay   string
	Actual  string
	Planned string
}

type page struct {
	Weather    []weatherColumn
	Departures []departureColumn
	Date       string
	Timetable  template.HTML
	UpdatedAt  string
	Battery    string
}

// Renderer formats times in a fixed timezone.
type Renderer struct {
	loc *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	return &Renderer{loc: loc}
}

// Render produces the dashboard document for s.
func (r *Renderer) Render(s *types.DashboardSnapshot) (string, error) {
	if s == nil || s.Weather == nil || s.Departures == nil {
		return "", fmt.Errorf("%w: missing weather or departures", ErrInsufficientData)
	}
	hourly := s.Weather.Hourly.Data
	if len(hourly) < MinHourlyEntries {
		return "", fmt.Errorf("%w: %d hourly entries, need %d", ErrInsufficientData, len(hourly), MinHourlyEntries)
	}
	if len(s.Departures.Departures) < DeparturesShown {
		return "", fmt.Errorf("%w: %d departures, need %d", ErrInsufficientData, len(s.Departures.Departures), DeparturesShown)
	}

	now := s.GeneratedAt.In(r.loc)
	p := page{
		Weather: []weatherColumn{
			newWeatherColumn("Currently", s.Weather.Currently),
			newWeatherColumn("Afternoon (+4)", hourly[4]),
			newWeatherColumn("Later today (+8)", hourly[8]),
		},
		Date:      now.Format("Mon Jan 02 2006"),
		Timetable: s.TimetableHTML,
		UpdatedAt: now.Format("15:04"),
		Battery:   s.BatteryLevel,
	}
	for _, d := range s.Departures.Departures[:DeparturesShown] {
		p.Departures = append(p.Departures, departureColumn{
			Delay:   FormatDelay(d.Delay),
			Actual:  r.clock(d.When, d.PlannedWhen),
			Planned: r.clock(d.PlannedWhen, nil),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("execute dashboard template: %w", err)
	}
	return buf.String(), nil
}

func newWeatherColumn(label template.HTML, c types.ConditionsRecord) weatherColumn {
	return weatherColumn{
		Label:       label,
		Glyph:       Glyph(c.Icon),
		Temperature: FormatTemperature(c.Temperature),
		Summary:     c.Summary,
	}
}

// clock formats t as HH:MM, using fallback when t is nil.
func (r *Renderer) clock(t, fallback *time.Time) string {
	if t == nil {
		t = fallback
	}
	if t == nil {
		return "--:--"
	}
	return t.In(r.loc).Format("15:04")
}

// FormatDelay renders a delay in seconds. nil and zero are on time;
// minutes round half away from zero.
func FormatDelay(seconds *int) string {
	if seconds == nil || *seconds == 0 {
		return "On Time"
	}
	minutes := int(math.Abs(math.Round(float64(*seconds) / 60)))
	if *seconds < 0 {
		return fmt.Sprintf("Early: %d min", minutes)
	}
	return fmt.Sprintf("Delayed: %d min", minutes)
}

// FormatTemperature prints the shortest exact decimal followed by ˚C.
func FormatTemperature(celsius float64) string {
	return strconv.FormatFloat(celsius, 'f', -1, 64) + "˚C"
}

var glyphs = map[string]string{
	types.IconClearDay:          "☀️",
	types.IconClearNight:        "🌙",
	types.IconRain:              "🌧️",
	types.IconSnow:              "❄️",
	types.IconSleet:             "🌨️",
	types.IconWind:              "💨",
	types.IconFog:               "🌫️",
	types.IconCloudy:            "☁️",
	types.IconPartlyCloudyDay:   "⛅",
	types.IconPartlyCloudyNight: "🌤️",
}

// UnknownGlyph is shown for icons outside the known set.
const UnknownGlyph = "❓"

// Glyph maps an icon name to its emoji.
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return UnknownGlyph
}
