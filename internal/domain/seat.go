package domain

import (
	"strings"
)

type SeatRole int

const (
	SeatCox SeatRole = iota
	SeatStroke
	SeatBow
	Seat2
	Seat3
	Seat4
	Seat5
	Seat6
	Seat7
	SeatCoachBankRider
	SeatSub1
	SeatSub2
	SeatSub3
	SeatSub4

	seatRoleCount
)

// SeatCount is the number of fixed seat slots on every outing.
const SeatCount = int(seatRoleCount)

type seatFields struct {
	key             string
	label           string
	assignmentField string
	statusField     string
}

// The array length pins the table to the role enumeration.
var seatTable = [seatRoleCount]seatFields{
	SeatCox:            {key: "cox", label: "Cox", assignmentField: "Cox", statusField: "Cox Status"},
	SeatStroke:         {key: "stroke", label: "Stroke", assignmentField: "Stroke", statusField: "Stroke Status"},
	SeatBow:            {key: "bow", label: "Bow", assignmentField: "Bow", statusField: "Bow Status"},
	Seat2:              {key: "seat2", label: "2 Seat", assignmentField: "2 Seat", statusField: "2 Seat Status"},
	Seat3:              {key: "seat3", label: "3 Seat", assignmentField: "3 Seat", statusField: "3 Seat Status"},
	Seat4:              {key: "seat4", label: "4 Seat", assignmentField: "4 Seat", statusField: "4 Seat Status"},
	Seat5:              {key: "seat5", label: "5 Seat", assignmentField: "5 Seat", statusField: "5 Seat Status"},
	Seat6:              {key: "seat6", label: "6 Seat", assignmentField: "6 Seat", statusField: "6 Seat Status"},
	Seat7:              {key: "seat7", label: "7 Seat", assignmentField: "7 Seat", statusField: "7 Seat Status"},
	SeatCoachBankRider: {key: "coach_bank_rider", label: "Coach/Bank Rider", assignmentField: "CoachBankRider", statusField: "Bank Rider Status"},
	SeatSub1:           {key: "sub1", label: "Sub 1", assignmentField: "Sub1", statusField: "Sub 1 Status"},
	SeatSub2:           {key: "sub2", label: "Sub 2", assignmentField: "Sub2", statusField: "Sub 2 Status"},
	SeatSub3:           {key: "sub3", label: "Sub 3", assignmentField: "Sub3", statusField: "Sub 3 Status"},
	SeatSub4:           {key: "sub4", label: "Sub 4", assignmentField: "Sub4", statusField: "Sub 4 Status"},
}

var seatLookup = func() map[string]SeatRole {
	m := make(map[string]SeatRole, SeatCount*4)
	for i, f := range seatTable {
		role := SeatRole(i)
		for _, name := range []string{f.key, f.label, f.assignmentField, f.statusField} {
			m[normalizeSeatName(name)] = role
		}
	}
	return m
}()

func normalizeSeatName(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "/", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// AllSeatRoles returns every role in display order.
func AllSeatRoles() []SeatRole {
	out := make([]SeatRole, SeatCount)
	for i := range out {
		out[i] = SeatRole(i)
	}
	return out
}

// ParseSeatRole accepts the canonical key, the display label and either of
// the stored document field names, ignoring case and separators.
func ParseSeatRole(s string) (SeatRole, error) {
	role, ok := seatLookup[normalizeSeatName(s)]
	if !ok {
		return 0, validationErrorf("unknown seat: %s", s)
	}
	return role, nil
}

func (r SeatRole) Valid() bool {
	return r >= 0 && r < seatRoleCount
}

func (r SeatRole) String() string {
	if !r.Valid() {
		return "unknown"
	}
	return seatTable[r].key
}

func (r SeatRole) Label() string {
	if !r.Valid() {
		return "Unknown"
	}
	return seatTable[r].label
}

func (r SeatRole) AssignmentField() string {
	if !r.Valid() {
		return ""
	}
	return seatTable[r].assignmentField
}

func (r SeatRole) StatusField() string {
	if !r.Valid() {
		return ""
	}
	return seatTable[r].statusField
}

func (r SeatRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, validationErrorf("unknown seat: %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *SeatRole) UnmarshalText(b []byte) error {
	v, err := ParseSeatRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// SeatStatus is shared by rower approval on a seat and the outing's own
// status. Which field holds it decides its meaning.
type SeatStatus string

const (
	StatusAwaitingApproval SeatStatus = "Awaiting Approval"
	StatusAvailable        SeatStatus = "Available"
	StatusMaybeAvailable   SeatStatus = "Maybe Available"
	StatusNotAvailable     SeatStatus = "Not Available"
	StatusConfirmed        SeatStatus = "Confirmed"
	StatusProvisional      SeatStatus = "Provisional"
	StatusCancelled        SeatStatus = "Cancelled"
	StatusReserved         SeatStatus = "Reserved"
)

var seatStatusAliases = map[string]SeatStatus{
	"awaitingapproval":  StatusAwaitingApproval,
	"available":         StatusAvailable,
	"maybeavailable":    StatusMaybeAvailable,
	"maybe":             StatusMaybeAvailable,
	"notavailable":      StatusNotAvailable,
	"confirmed":         StatusConfirmed,
	"outingconfirmed":   StatusConfirmed,
	"provisional":       StatusProvisional,
	"provisionalouting": StatusProvisional,
	"cancelled":         StatusCancelled,
	"canceled":          StatusCancelled,
	"outingcancelled":   StatusCancelled,
	"reserved":          StatusReserved,
}

func ParseSeatStatus(s string) (SeatStatus, error) {
	st, ok := seatStatusAliases[normalizeSeatName(s)]
	if !ok {
		return "", validationErrorf("unknown status: %s", s)
	}
	return st, nil
}

// IsRowerStatus reports whether s belongs to the per-seat state space.
func (s SeatStatus) IsRowerStatus() bool {
	switch s {
	case StatusAwaitingApproval, StatusAvailable, StatusMaybeAvailable, StatusNotAvailable:
		return true
	}
	return false
}

// IsSettable reports whether a rower may set s directly on an occupied seat.
func (s SeatStatus) IsSettable() bool {
	switch s {
	case StatusAvailable, StatusMaybeAvailable, StatusNotAvailable:
		return true
	}
	return false
}

func (s SeatStatus) IsOutingStatus() bool {
	switch s {
	case StatusProvisional, StatusConfirmed, StatusCancelled, StatusReserved:
		return true
	}
	return false
}
