package domain

import (
	"github.com/google/uuid"
)

// Field names the single stored field a write touches.
type Field int

const (
	FieldMember Field = iota + 1
	FieldStatus
	FieldOutingStatus
)

func (f Field) String() string {
	switch f {
	case FieldMember:
		return "member"
	case FieldStatus:
		return "status"
	case FieldOutingStatus:
		return "outing_status"
	default:
		return "unknown"
	}
}

// FieldWrite is one remote write produced by a transition.
type FieldWrite struct {
	Field  Field
	Role   SeatRole
	Member uuid.NullUUID
	Status SeatStatus
}

// Transition is the planned effect of one seat-scoped trigger. Primary and
// Derived must be written in that order.
type Transition struct {
	Role    SeatRole
	Before  SeatAssignment
	After   SeatAssignment
	Primary FieldWrite
	Derived *FieldWrite

	// OtherSeats lists seats on the same outing already held by the
	// newly assigned member.
	OtherSeats []SeatRole
}

// NoOp reports a trigger that leaves the seat unchanged and needs no write.
func (t Transition) NoOp() bool {
	return t.Primary.Field == 0
}

// Writes returns the remote writes in issue order.
func (t Transition) Writes() []FieldWrite {
	if t.NoOp() {
		return nil
	}
	out := []FieldWrite{t.Primary}
	if t.Derived != nil {
		out = append(out, *t.Derived)
	}
	return out
}

func seatFor(reg SeatRegistry, role SeatRole) (SeatAssignment, error) {
	a, ok := reg.Get(role)
	if !ok {
		return SeatAssignment{}, validationErrorf("unknown seat: %d", int(role))
	}
	return a, nil
}

// PlanAssign puts member in the seat. Any change of member resets the
// status to AwaitingApproval. Assigning the current holder is a no-op.
func PlanAssign(reg SeatRegistry, role SeatRole, member uuid.UUID) (Transition, error) {
	before, err := seatFor(reg, role)
	if err != nil {
		return Transition{}, err
	}
	if member == uuid.Nil {
		return Transition{}, NewValidationError("member is required")
	}

	t := Transition{Role: role, Before: before, After: before}
	if before.Member.Valid && before.Member.UUID == member {
		return t, nil
	}

	t.After = SeatAssignment{
		Role:   role,
		Member: uuid.NullUUID{UUID: member, Valid: true},
		Status: StatusAwaitingApproval,
	}
	t.Primary = FieldWrite{Field: FieldMember, Role: role, Member: t.After.Member}
	t.Derived = &FieldWrite{Field: FieldStatus, Role: role, Status: StatusAwaitingApproval}
	for _, other := range reg.SeatsHeldBy(member) {
		if other != role {
			t.OtherSeats = append(t.OtherSeats, other)
		}
	}
	return t, nil
}

// PlanClear empties an occupied seat and resets its status so it can be
// signed up for again.
func PlanClear(reg SeatRegistry, role SeatRole) (Transition, error) {
	before, err := seatFor(reg, role)
	if err != nil {
		return Transition{}, err
	}
	if !before.Member.Valid {
		return Transition{}, preconditionErrorf("%s has no member to clear", role.Label())
	}

	return Transition{
		Role:    role,
		Before:  before,
		After:   SeatAssignment{Role: role, Status: StatusAwaitingApproval},
		Primary: FieldWrite{Field: FieldMember, Role: role},
		Derived: &FieldWrite{Field: FieldStatus, Role: role, Status: StatusAwaitingApproval},
	}, nil
}

// PlanSetStatus records a rower's answer on an occupied seat.
func PlanSetStatus(reg SeatRegistry, role SeatRole, status SeatStatus) (Transition, error) {
	before, err := seatFor(reg, role)
	if err != nil {
		return Transition{}, err
	}
	if !status.IsSettable() {
		return Transition{}, validationErrorf("status %q cannot be set on a seat", status)
	}
	if !before.Member.Valid {
		return Transition{}, preconditionErrorf("%s is unoccupied; status cannot be set", role.Label())
	}

	t := Transition{Role: role, Before: before, After: before}
	if before.Status == status {
		return t, nil
	}
	t.After.Status = status
	t.Primary = FieldWrite{Field: FieldStatus, Role: role, Status: status}
	return t, nil
}

// PlanNormalize resets the leftover status of an empty seat.
func PlanNormalize(reg SeatRegistry, role SeatRole) (Transition, error) {
	before, err := seatFor(reg, role)
	if err != nil {
		return Transition{}, err
	}
	if !before.Inconsistent() {
		return Transition{}, preconditionErrorf("%s needs no normalization", role.Label())
	}
	return Transition{
		Role:    role,
		Before:  before,
		After:   SeatAssignment{Role: role, Status: StatusAwaitingApproval},
		Primary: FieldWrite{Field: FieldStatus, Role: role, Status: StatusAwaitingApproval},
	}, nil
}

// OutingTransition changes only the outing-level status; seats are untouched.
type OutingTransition struct {
	Before SeatStatus
	After  SeatStatus
}

func (t OutingTransition) NoOp() bool {
	return t.Before == t.After
}

func PlanOutingStatus(current, next SeatStatus) (OutingTransition, error) {
	if !next.IsOutingStatus() {
		return OutingTransition{}, validationErrorf("status %q is not an outing status", next)
	}
	return OutingTransition{Before: current, After: next}, nil
}

// Apply moves the seat to t.After.
func (r *SeatRegistry) Apply(t Transition) {
	if !t.Role.Valid() {
		return
	}
	r.set(t.After)
}

// Restore puts a previously captured seat back.
func (r *SeatRegistry) Restore(a SeatAssignment) {
	if !a.Role.Valid() {
		return
	}
	r.set(a)
}

// RestoreStatus rolls back only the status of a seat.
func (r *SeatRegistry) RestoreStatus(role SeatRole, status SeatStatus) {
	if !role.Valid() {
		return
	}
	r[role].Status = status
}
