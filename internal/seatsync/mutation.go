package seatsync

import (
	"fmt"

	"github.com/google/uuid"

	"crewboard/internal/domain"
)

type mutationKind int

const (
	kindAssign mutationKind = iota + 1
	kindClear
	kindSetStatus
	kindNormalize
	kindOutingStatus
)

// Mutation is one user-initiated change to an outing.
type Mutation struct {
	kind   mutationKind
	seat   domain.SeatRole
	member uuid.UUID
	status domain.SeatStatus
}

func AssignMember(seat domain.SeatRole, member uuid.UUID) Mutation {
	return Mutation{kind: kindAssign, seat: seat, member: member}
}

func ClearMember(seat domain.SeatRole) Mutation {
	return Mutation{kind: kindClear, seat: seat}
}

func SetSeatStatus(seat domain.SeatRole, status domain.SeatStatus) Mutation {
	return Mutation{kind: kindSetStatus, seat: seat, status: status}
}

// NormalizeSeat resets the leftover status of an empty seat so it opens
// for sign-up again.
func NormalizeSeat(seat domain.SeatRole) Mutation {
	return Mutation{kind: kindNormalize, seat: seat}
}

// SetOutingStatus changes the outing-level status only.
func SetOutingStatus(status domain.SeatStatus) Mutation {
	return Mutation{kind: kindOutingStatus, status: status}
}

// Seat is the targeted seat. ok is false for outing-level mutations.
func (m Mutation) Seat() (domain.SeatRole, bool) {
	return m.seat, m.kind != kindOutingStatus
}

func (m Mutation) String() string {
	switch m.kind {
	case kindAssign:
		return fmt.Sprintf("assign %s to %s", m.member, m.seat.Label())
	case kindClear:
		return fmt.Sprintf("clear %s", m.seat.Label())
	case kindSetStatus:
		return fmt.Sprintf("set %s to %s", m.seat.Label(), m.status)
	case kindNormalize:
		return fmt.Sprintf("normalize %s", m.seat.Label())
	case kindOutingStatus:
		return fmt.Sprintf("set outing status to %s", m.status)
	default:
		return "unknown mutation"
	}
}

const outingStatusKey = "outing_status"

// key identifies what the mutation writes for in-flight and pending
// tracking.
func (m Mutation) key() string {
	if m.kind == kindOutingStatus {
		return outingStatusKey
	}
	return seatKey(m.seat)
}

func seatKey(role domain.SeatRole) string {
	return "seat:" + role.String()
}

// plan is the validated, not yet applied, form of a Mutation.
type plan struct {
	mutation Mutation
	seat     domain.Transition
	outing   domain.OutingTransition
}

func (p plan) noOp() bool {
	if p.mutation.kind == kindOutingStatus {
		return p.outing.NoOp()
	}
	return p.seat.NoOp()
}

func planMutation(o domain.Outing, m Mutation) (plan, error) {
	p := plan{mutation: m}
	var err error
	switch m.kind {
	case kindAssign:
		p.seat, err = domain.PlanAssign(o.Seats, m.seat, m.member)
	case kindClear:
		p.seat, err = domain.PlanClear(o.Seats, m.seat)
	case kindSetStatus:
		p.seat, err = domain.PlanSetStatus(o.Seats, m.seat, m.status)
	case kindNormalize:
		p.seat, err = domain.PlanNormalize(o.Seats, m.seat)
	case kindOutingStatus:
		p.outing, err = domain.PlanOutingStatus(o.Status, m.status)
	default:
		err = domain.NewValidationError("unknown mutation")
	}
	return p, err
}
