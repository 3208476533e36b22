package domain

import (
	"github.com/google/uuid"
)

type SeatAssignment struct {
	Role   SeatRole      `json:"role"`
	Member uuid.NullUUID `json:"member"`
	Status SeatStatus    `json:"status"`
}

func (a SeatAssignment) Occupied() bool {
	return a.Member.Valid
}

// Open reports whether the seat can take a new sign-up.
func (a SeatAssignment) Open() bool {
	return !a.Member.Valid && a.Status == StatusAwaitingApproval
}

// Inconsistent reports an empty seat still carrying a rower status.
func (a SeatAssignment) Inconsistent() bool {
	return !a.Member.Valid && a.Status != StatusAwaitingApproval
}

// SeatRegistry holds the fixed seat slots of one outing, indexed by role.
type SeatRegistry [SeatCount]SeatAssignment

func NewSeatRegistry() SeatRegistry {
	var r SeatRegistry
	for i := range r {
		r[i] = SeatAssignment{Role: SeatRole(i), Status: StatusAwaitingApproval}
	}
	return r
}

func (r SeatRegistry) Get(role SeatRole) (SeatAssignment, bool) {
	if !role.Valid() {
		return SeatAssignment{}, false
	}
	return r[role], true
}

func (r *SeatRegistry) set(a SeatAssignment) {
	r[a.Role] = a
}

// AvailableSeats lists roles open for sign-up in display order.
func (r SeatRegistry) AvailableSeats() []SeatRole {
	out := make([]SeatRole, 0, SeatCount)
	for _, a := range r {
		if a.Open() {
			out = append(out, a.Role)
		}
	}
	return out
}

// SeatsHeldBy lists every role occupied by member.
func (r SeatRegistry) SeatsHeldBy(member uuid.UUID) []SeatRole {
	var out []SeatRole
	for _, a := range r {
		if a.Member.Valid && a.Member.UUID == member {
			out = append(out, a.Role)
		}
	}
	return out
}

// InconsistentSeats lists empty seats whose status was left behind.
func (r SeatRegistry) InconsistentSeats() []SeatRole {
	var out []SeatRole
	for _, a := range r {
		if a.Inconsistent() {
			out = append(out, a.Role)
		}
	}
	return out
}

// DisplayStatus hides the stored status of an empty seat.
func (r SeatRegistry) DisplayStatus(role SeatRole) (SeatStatus, bool) {
	a, ok := r.Get(role)
	if !ok || !a.Member.Valid {
		return "", false
	}
	return a.Status, true
}
