package types

import "time"

// StopLocation is the geographic position of a stop.
type StopLocation struct {
	Type      string  `json:"type"`
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Products lists the transport modes served at a stop.
type Products struct {
	Suburban bool `json:"suburban"`
	Subway   bool `json:"subway"`
	Tram     bool `json:"tram"`
	Bus      bool `json:"bus"`
	Ferry    bool `json:"ferry"`
	Express  bool `json:"express"`
	Regional bool `json:"regional"`
}

type Stop struct {
	Type     string        `json:"type"`
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Location *StopLocation `json:"location,omitempty"`
	Products *Products     `json:"products,omitempty"`
}

type Operator struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Line struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	FahrtNr     string    `json:"fahrtNr"`
	Name        string    `json:"name"`
	Public      bool      `json:"public"`
	AdminCode   string    `json:"adminCode"`
	ProductName string    `json:"productName"`
	Mode        string    `json:"mode"`
	Product     string    `json:"product"`
	Operator    *Operator `json:"operator,omitempty"`
}

// Departure is one scheduled vehicle departure.
// When is nil for cancelled trips; Delay is nil when no realtime data exists.
type Departure struct {
	TripID          string     `json:"tripId"`
	Stop            *Stop      `json:"stop,omitempty"`
	When            *time.Time `json:"when"`
	PlannedWhen     *time.Time `json:"plannedWhen"`
	Delay           *int       `json:"delay"`
	Platform        *string    `json:"platform"`
	PlannedPlatform *string    `json:"plannedPlatform"`
	PrognosisType   *string    `json:"prognosisType"`
	Direction       string     `json:"direction"`
	Line            Line       `json:"line"`
	Origin          *Stop      `json:"origin"`
	Destination     *Stop      `json:"destination"`
	Cancelled       bool       `json:"cancelled,omitempty"`
}

// DepartureTime returns the realtime departure instant, falling back to the
// planned one. The second result is false when neither is known.
func (d Departure) DepartureTime() (time.Time, bool) {
	if d.When != nil {
		return *d.When, true
	}
	if d.PlannedWhen != nil {
		return *d.PlannedWhen, true
	}
	return time.Time{}, false
}

// DepartureBoard is the departures response of the transit API.
type DepartureBoard struct {
	Departures            []Departure `json:"departures"`
	RealtimeDataUpdatedAt *int64      `json:"realtimeDataUpdatedAt"`
}
