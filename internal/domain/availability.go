package domain

import (
	"time"

	"github.com/google/uuid"
)

// IsAvailable decides whether a member with the given weekly blocks can make
// a session on sessionDate starting at start. sessionDate must already be in
// the club's location. A nil end falls back to a point check on start.
func IsAvailable(u WeeklyUnavailability, sessionDate time.Time, start LocalTime, end *LocalTime) bool {
	blocked := u.Days[DayOfWeek(sessionDate, nil)]
	if len(blocked) == 0 {
		return true
	}

	if end != nil {
		session := TimeRange{Start: start, End: *end}
		for _, r := range blocked {
			if r.Overlaps(session) {
				return false
			}
		}
		return true
	}

	for _, r := range blocked {
		if r.ContainsInstant(start) {
			return false
		}
	}
	return true
}

// SessionWindow converts an outing's instants to the local date and
// wall-clock range used by IsAvailable. Sessions that end on a later local
// day are clamped to EndOfDay.
func SessionWindow(o Outing, loc *time.Location) (time.Time, LocalTime, *LocalTime) {
	if loc == nil {
		loc = time.UTC
	}
	start := o.StartTime.In(loc)
	date := LocalDate(start, loc)
	startTime := LocalTimeOf(start)

	if o.EndTime == nil {
		return date, startTime, nil
	}

	end := o.EndTime.In(loc)
	var endTime LocalTime
	if LocalDate(end, loc).After(date) {
		endTime = EndOfDay
	} else {
		endTime = LocalTimeOf(end)
	}
	if endTime <= startTime {
		return date, startTime, nil
	}
	return date, startTime, &endTime
}

// IsMemberEligible reports whether u leaves the member free for the outing.
// A nil u means nothing was declared.
func IsMemberEligible(u *WeeklyUnavailability, o Outing, loc *time.Location) bool {
	if u == nil {
		return true
	}
	date, start, end := SessionWindow(o, loc)
	return IsAvailable(*u, date, start, end)
}

type Partition struct {
	Available   []Member `json:"available"`
	Unavailable []Member `json:"unavailable"`
}

// PartitionByAvailability splits members by IsAvailable, keeping input order
// within each side. Members without an entry are available.
func PartitionByAvailability(members []Member, byMember map[uuid.UUID]WeeklyUnavailability, sessionDate time.Time, start LocalTime, end *LocalTime) Partition {
	return PartitionEligible(members, byMember, sessionDate, start, end, nil)
}

// PartitionEligible is PartitionByAvailability with an extra test: members
// failing keep land on the unavailable side. A nil keep passes everyone.
func PartitionEligible(members []Member, byMember map[uuid.UUID]WeeklyUnavailability, sessionDate time.Time, start LocalTime, end *LocalTime, keep func(Member) bool) Partition {
	p := Partition{
		Available:   make([]Member, 0, len(members)),
		Unavailable: make([]Member, 0),
	}
	for _, m := range members {
		u, ok := byMember[m.ID]
		free := !ok || IsAvailable(u, sessionDate, start, end)
		if free && (keep == nil || keep(m)) {
			p.Available = append(p.Available, m)
			continue
		}
		p.Unavailable = append(p.Unavailable, m)
	}
	return p
}
