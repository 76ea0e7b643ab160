package types

// TimetableDay is one weekday's ordered slot labels as stored in the
// timetable file. Labels may carry inline <i>/<b> markup and are rendered verbatim.
type TimetableDay struct {
	Day  string   `yaml:"day"`
	Plan []string `yaml:"plan"`
}

// TimetableFile is the on-disk timetable document.
type TimetableFile struct {
	Days []TimetableDay `yaml:"days"`
}
