// Package timetable turns the weekly class plan into the HTML rows shown on
// the dashboard.
package timetable

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/NomadCrew/school-dashboard/types"
	"gopkg.in/yaml.v3"
)

// SlotsPerDay is the number of periods on every school day.
const SlotsPerDay = 12

const firstSlotStart = 8 * 60 // 08:00, minutes after midnight

//go:embed default.yaml
var defaultTimetable []byte

var rowsTemplate = template.Must(template.New("timetable").Parse(
	`{{range .}}
<div class="timetable-item">
    <div class="timetable-time">{{.Time}}</div>
    <div class="timetable-desc">{{.Description}}</div>
    <div class="timetable-status">{{.Status}}</div>
</div>{{end}}
`))

// Row is one rendered timetable line.
type Row struct {
	Time        string
	Description template.HTML
	Status      string
}

// sundayRow replaces the whole plan on Sundays.
var sundayRow = Row{
	Time:        "09:00 - 17:00",
	Description: "Fun and chill",
	Status:      "Prepare the bag",
}

// Timetable holds one plan per weekday.
type Timetable struct {
	plans map[time.Weekday][]string
}

// Default returns the built-in timetable.
func Default() (*Timetable, error) {
	return Parse(defaultTimetable)
}

// Load reads a timetable file, or the built-in one when path is empty.
func Load(path string) (*Timetable, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load timetable %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a YAML timetable. Every weekday must be present
// exactly once and every day except Sunday must have SlotsPerDay entries.
func Parse(data []byte) (*Timetable, error) {
	var doc types.TimetableFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timetable: %w", err)
	}

	t := &Timetable{plans: make(map[time.Weekday][]string, 7)}
	for _, d := range doc.Days {
		day, ok := parseWeekday(d.Day)
		if !ok {
			return nil, fmt.Errorf("timetable: unknown day %q", d.Day)
		}
		if _, dup := t.plans[day]; dup {
			return nil, fmt.Errorf("timetable: %s listed twice", day)
		}
		if day != time.Sunday && len(d.Plan) != SlotsPerDay {
			return nil, fmt.Errorf("timetable: %s has %d slots, want %d", day, len(d.Plan), SlotsPerDay)
		}
		t.plans[day] = d.Plan
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		if _, ok := t.plans[day]; !ok {
			return nil, fmt.Errorf("timetable: %s missing", day)
		}
	}
	return t, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), strings.TrimSpace(name)) {
			return day, true
		}
	}
	return 0, false
}

// slotIncrement is the gap in minutes before slot i starts, measured from the
// start of slot i-1. Slot 0 starts the day; slots 3, 6 and 9 follow a break.
func slotIncrement(i int) int {
	switch i {
	case 0:
		return 0
	case 3:
		return 20
	case 6:
		return 25
	case 9:
		return 35
	default:
		return 45
	}
}

// SlotTimes returns the HH:MM start label of every slot.
func SlotTimes() []string {
	out := make([]string, SlotsPerDay)
	minutes := firstSlotStart
	for i := range out {
		minutes += slotIncrement(i)
		out[i] = fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
	}
	return out
}

// Rows returns the lines to display for day.
func (t *Timetable) Rows(day time.Weekday) []Row {
	if day == time.Sunday {
		return []Row{sundayRow}
	}

	plan := t.plans[day]
	times := SlotTimes()
	rows := make([]Row, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay && i < len(plan); i++ {
		rows = append(rows, Row{
			Time: times[i],
			// Slot labels are operator-authored and may carry emphasis markup.
			Description: template.HTML(plan[i]),
		})
	}
	return rows
}

// Render returns the HTML fragment for day.
func (t *Timetable) Render(day time.Weekday) (template.HTML, error) {
	var buf bytes.Buffer
	if err := rowsTemplate.Execute(&buf, t.Rows(day)); err != nil {
		return "", fmt.Errorf("render timetable: %w", err)
	}
	return template.HTML(buf.String()), nil
}
