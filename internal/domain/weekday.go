package domain

import (
	"strings"
	"time"
)

// DayOfWeek returns the weekday of date's local calendar day in loc. A nil
// loc keeps date's own location.
func DayOfWeek(date time.Time, loc *time.Location) time.Weekday {
	if loc != nil {
		date = date.In(loc)
	}
	return date.Weekday()
}

// LocalDate truncates t to midnight of its calendar day in loc.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns local midnight of the Monday on or before t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	d := LocalDate(t, loc)
	return d.AddDate(0, 0, -mondayOffset(d.Weekday()))
}

func mondayOffset(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, validationErrorf("invalid day of week: %s", s)
	}
	return wd, nil
}

// WeekdaysFromMonday lists the days in club display order.
var WeekdaysFromMonday = [7]time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}
