package domain

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CoxingSlot is one of the four daily windows coxes sign up for.
type CoxingSlot string

const (
	SlotEarlyAM CoxingSlot = "early_am"
	SlotMidAM   CoxingSlot = "mid_am"
	SlotMidPM   CoxingSlot = "mid_pm"
	SlotLatePM  CoxingSlot = "late_pm"
)

// CoxingSlots lists the slots in the order of the day.
var CoxingSlots = [4]CoxingSlot{SlotEarlyAM, SlotMidAM, SlotMidPM, SlotLatePM}

var coxingSlotLabels = map[CoxingSlot]string{
	SlotEarlyAM: "Early AM",
	SlotMidAM:   "Mid AM",
	SlotMidPM:   "Mid PM",
	SlotLatePM:  "Late PM",
}

func (s CoxingSlot) Valid() bool {
	_, ok := coxingSlotLabels[s]
	return ok
}

func (s CoxingSlot) Label() string {
	if l, ok := coxingSlotLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseCoxingSlot accepts the canonical keys, display labels and camel-case
// forms such as "earlyAM". "Early PM" is the old name of the Mid PM slot.
func ParseCoxingSlot(s string) (CoxingSlot, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(n)
	switch n {
	case "earlyam":
		return SlotEarlyAM, nil
	case "midam":
		return SlotMidAM, nil
	case "midpm", "earlypm":
		return SlotMidPM, nil
	case "latepm":
		return SlotLatePM, nil
	}
	return "", validationErrorf("unknown coxing slot: %s", s)
}

// CoxingSlotFor maps an outing start to its slot by the local hour:
// 06-08 Early AM, 08-12 Mid AM, 12-17 Mid PM, 17-20 Late PM. Anything else
// falls back to Mid PM.
func CoxingSlotFor(start time.Time, loc *time.Location) CoxingSlot {
	if loc != nil {
		start = start.In(loc)
	}
	switch h := start.Hour(); {
	case h >= 6 && h < 8:
		return SlotEarlyAM
	case h >= 8 && h < 12:
		return SlotMidAM
	case h >= 12 && h < 17:
		return SlotMidPM
	case h >= 17 && h < 20:
		return SlotLatePM
	}
	return SlotMidPM
}

type CoxingAction string

const (
	CoxingAdd    CoxingAction = "add"
	CoxingRemove CoxingAction = "remove"
)

func ParseCoxingAction(s string) (CoxingAction, error) {
	switch a := CoxingAction(strings.ToLower(strings.TrimSpace(s))); a {
	case CoxingAdd, CoxingRemove:
		return a, nil
	}
	return "", validationErrorf(`action must be "add" or "remove": %s`, s)
}

// CivilDate returns t's calendar day in loc as midnight UTC, the form dates
// are stored and compared in.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseCivilDate parses YYYY-MM-DD.
func ParseCivilDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, validationErrorf("invalid date, want YYYY-MM-DD: %s", s)
	}
	return d, nil
}

// CoxingAvailability lists who signed up to cox in each slot of one date.
type CoxingAvailability struct {
	Date  time.Time                  `json:"date"`
	Slots map[CoxingSlot][]uuid.UUID `json:"slots"`
}

func NewCoxingAvailability(date time.Time) CoxingAvailability {
	return CoxingAvailability{
		Date:  CivilDate(date, nil),
		Slots: make(map[CoxingSlot][]uuid.UUID, len(CoxingSlots)),
	}
}

func (a CoxingAvailability) Members(slot CoxingSlot) []uuid.UUID {
	return slices.Clone(a.Slots[slot])
}

func (a CoxingAvailability) Has(slot CoxingSlot, memberID uuid.UUID) bool {
	return slices.Contains(a.Slots[slot], memberID)
}

func (a CoxingAvailability) IsEmpty() bool {
	for _, ids := range a.Slots {
		if len(ids) > 0 {
			return false
		}
	}
	return true
}

// CoxingSignup is the stored form of one member in one slot.
type CoxingSignup struct {
	bun.BaseModel `bun:"table:coxing_signups"`

	Day       time.Time  `bun:"day,pk,type:date"`
	Slot      CoxingSlot `bun:"slot,pk"`
	MemberID  uuid.UUID  `bun:"member_id,pk,type:uuid"`
	CreatedAt time.Time  `bun:"created_at,notnull"`
}

func (s *CoxingSignup) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CoxingAvailabilityFromRows groups signups by date, oldest date first.
// Members keep row order within a slot; unknown slots are dropped.
func CoxingAvailabilityFromRows(rows []CoxingSignup) []CoxingAvailability {
	byDay := make(map[time.Time]*CoxingAvailability)
	var days []time.Time
	for _, r := range rows {
		if !r.Slot.Valid() {
			continue
		}
		day := CivilDate(r.Day, nil)
		a, ok := byDay[day]
		if !ok {
			fresh := NewCoxingAvailability(day)
			a = &fresh
			byDay[day] = a
			days = append(days, day)
		}
		if !slices.Contains(a.Slots[r.Slot], r.MemberID) {
			a.Slots[r.Slot] = append(a.Slots[r.Slot], r.MemberID)
		}
	}

	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	out := make([]CoxingAvailability, 0, len(days))
	for _, d := range days {
		out = append(out, *byDay[d])
	}
	return out
}

// CoxCandidate returns the test a member must pass to be offered the cox
// seat. An empty flag skips the experience check and a nil day skips the
// sign-up check. It returns nil when neither applies.
func CoxCandidate(flag RiverFlag, day *CoxingAvailability, slot CoxingSlot) func(Member) bool {
	if flag == "" && day == nil {
		return nil
	}
	return func(m Member) bool {
		if flag != "" && !IsCoxEligible(m.CoxExperience, flag) {
			return false
		}
		return day == nil || day.Has(slot, m.ID)
	}
}
