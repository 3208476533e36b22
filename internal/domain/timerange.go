package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LocalTime is a wall-clock time of day, stored as minutes since midnight.
type LocalTime int

// EndOfDay is the exclusive end of a local day. It is produced when a
// session runs past midnight and is never accepted as input.
const EndOfDay LocalTime = 24 * 60

var localTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	if !localTimePattern.MatchString(s) {
		return 0, validationErrorf("Invalid time format: %s", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return LocalTime(h*60 + m), nil
}

func MustParseLocalTime(s string) LocalTime {
	t, err := ParseLocalTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// LocalTimeOf returns the wall-clock time of t in its own location.
func LocalTimeOf(t time.Time) LocalTime {
	return LocalTime(t.Hour()*60 + t.Minute())
}

func (t LocalTime) Minutes() int {
	return int(t)
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == EndOfDay.String() {
		*t = EndOfDay
		return nil
	}
	v, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeRange is a half-open [Start, End) interval within one local day.
type TimeRange struct {
	Start LocalTime `json:"start"`
	End   LocalTime `json:"end"`
}

func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseLocalTime(start)
	if err != nil {
		return TimeRange{}, validationErrorf("Invalid start time format: %s", start)
	}
	e, err := ParseLocalTime(end)
	if err != nil {
		return TimeRange{}, validationErrorf("Invalid end time format: %s", end)
	}
	r := TimeRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

func MustTimeRange(start, end string) TimeRange {
	r, err := NewTimeRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseTimeRange parses "HH:MM-HH:MM".
func ParseTimeRange(s string) (TimeRange, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return TimeRange{}, validationErrorf("Invalid time range: %s", s)
	}
	return NewTimeRange(start, end)
}

func (r TimeRange) Validate() error {
	if r.Start < 0 || r.Start >= EndOfDay {
		return validationErrorf("Invalid start time format: %s", r.Start)
	}
	if r.End <= 0 || r.End > EndOfDay {
		return validationErrorf("Invalid end time format: %s", r.End)
	}
	if r.End <= r.Start {
		return validationErrorf("End time must be after start time: %s - %s", r.Start, r.End)
	}
	return nil
}

// Overlaps reports strict half-open overlap. Ranges that only touch at an
// endpoint do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Minutes() < o.End.Minutes() && o.Start.Minutes() < r.End.Minutes()
}

func (r TimeRange) ContainsInstant(t LocalTime) bool {
	return t.Minutes() >= r.Start.Minutes() && t.Minutes() < r.End.Minutes()
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
