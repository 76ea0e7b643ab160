package types

import (
	"html/template"
	"time"
)

// DefaultBatteryLevel is shown when the device did not report a level.
const DefaultBatteryLevel = "-99"

// DashboardSnapshot is everything one render needs. It lives for a single request.
type DashboardSnapshot struct {
	Weather       *WeatherSnapshot
	Departures    *DepartureBoard
	TimetableHTML template.HTML
	BatteryLevel  string
	GeneratedAt   time.Time
}
