package timetable

import (
	"html/template"
	"time"
)

// Provider renders the plan for the current day in a fixed timezone.
type Provider struct {
	timetable *Timetable
	loc       *time.Location
	now       func() time.Time
}

func NewProvider(t *Timetable, loc *time.Location) *Provider {
	return NewProviderWithClock(t, loc, time.Now)
}

func NewProviderWithClock(t *Timetable, loc *time.Location, now func() time.Time) *Provider {
	return &Provider{timetable: t, loc: loc, now: now}
}

// Today returns the fragment for the current weekday in the provider's timezone.
func (p *Provider) Today() (template.HTML, error) {
	return p.timetable.Render(p.now().In(p.loc).Weekday())
}
