package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const MaxRangesPerDay = 3

// WeeklyUnavailability holds a member's recurring blocked ranges, indexed by
// time.Weekday.
type WeeklyUnavailability struct {
	MemberID uuid.UUID      `json:"member_id"`
	Days     [7][]TimeRange `json:"days"`
}

func NewWeeklyUnavailability(memberID uuid.UUID) WeeklyUnavailability {
	return WeeklyUnavailability{MemberID: memberID}
}

func (u WeeklyUnavailability) RangesFor(day time.Weekday) []TimeRange {
	if day < time.Sunday || day > time.Saturday {
		return nil
	}
	src := u.Days[day]
	if len(src) == 0 {
		return nil
	}
	out := make([]TimeRange, len(src))
	copy(out, src)
	return out
}

// ReplaceDay overwrites one day's ranges. Nothing changes when the new set
// is invalid.
func (u *WeeklyUnavailability) ReplaceDay(day time.Weekday, ranges []TimeRange) error {
	if day < time.Sunday || day > time.Saturday {
		return validationErrorf("invalid day of week: %d", day)
	}
	if err := ValidateDayRanges(ranges); err != nil {
		return err
	}
	if len(ranges) == 0 {
		u.Days[day] = nil
		return nil
	}
	next := make([]TimeRange, len(ranges))
	copy(next, ranges)
	u.Days[day] = next
	return nil
}

func (u WeeklyUnavailability) IsEmpty() bool {
	for _, d := range u.Days {
		if len(d) > 0 {
			return false
		}
	}
	return true
}

// Validate checks every day and reports all failing days in one error.
func (u WeeklyUnavailability) Validate() error {
	var reasons []string
	for _, wd := range WeekdaysFromMonday {
		if err := ValidateDayRanges(u.Days[wd]); err != nil {
			reasons = append(reasons, strings.ToLower(wd.String())+": "+err.Error())
		}
	}
	if len(reasons) > 0 {
		return NewValidationError(strings.Join(reasons, "; "))
	}
	return nil
}

func ValidateDayRanges(ranges []TimeRange) error {
	if len(ranges) > MaxRangesPerDay {
		return validationErrorf("Maximum %d time ranges allowed per day", MaxRangesPerDay)
	}
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Overlaps(ranges[j]) {
				return validationErrorf("Time ranges overlap: %s and %s", ranges[i], ranges[j])
			}
		}
	}
	return nil
}

// UnavailabilityDay is the stored form of one member's day.
type UnavailabilityDay struct {
	bun.BaseModel `bun:"table:member_unavailability"`

	MemberID  uuid.UUID   `bun:"member_id,pk,type:uuid"`
	Weekday   int16       `bun:"weekday,pk"`
	Ranges    []TimeRange `bun:"ranges,type:jsonb,notnull"`
	UpdatedAt time.Time   `bun:"updated_at,notnull"`
}

func (d *UnavailabilityDay) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		d.UpdatedAt = time.Now().UTC()
		if d.Ranges == nil {
			d.Ranges = []TimeRange{}
		}
	}
	return nil
}

// WeeklyUnavailabilityFromRows folds stored days into a week. Rows for other
// members are ignored.
func WeeklyUnavailabilityFromRows(memberID uuid.UUID, rows []UnavailabilityDay) WeeklyUnavailability {
	u := NewWeeklyUnavailability(memberID)
	for _, r := range rows {
		if r.MemberID != memberID || r.Weekday < 0 || r.Weekday > 6 {
			continue
		}
		if len(r.Ranges) == 0 {
			continue
		}
		u.Days[r.Weekday] = append([]TimeRange(nil), r.Ranges...)
	}
	return u
}
