package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type OutingType string

const (
	OutingTypeWater OutingType = "water"
	OutingTypeErg   OutingType = "erg"
	OutingTypeGym   OutingType = "gym"
	OutingTypeTank  OutingType = "tank"
)

func (t OutingType) Valid() bool {
	switch t {
	case OutingTypeWater, OutingTypeErg, OutingTypeGym, OutingTypeTank:
		return true
	}
	return false
}

type Outing struct {
	bun.BaseModel `bun:"table:outings"`

	ID        uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	Name      string       `bun:"name,notnull" json:"name"`
	Type      OutingType   `bun:"outing_type,notnull" json:"type"`
	Division  string       `bun:"division" json:"division,omitempty"`
	Shell     string       `bun:"shell" json:"shell,omitempty"`
	Status    SeatStatus   `bun:"outing_status,notnull" json:"status"`
	StartTime time.Time    `bun:"start_time,notnull" json:"start_time"`
	EndTime   *time.Time   `bun:"end_time" json:"end_time,omitempty"`
	Published bool         `bun:"published,notnull" json:"published"`
	CreatedAt time.Time    `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time    `bun:"updated_at,notnull" json:"updated_at"`
	Seats     SeatRegistry `bun:"-" json:"seats"`
}

func (o *Outing) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if o.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			o.ID = id
		}
		if o.Status == "" {
			o.Status = StatusProvisional
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		o.UpdatedAt = now
	}
	return nil
}

// AvailableSeats lists roles open for sign-up.
func (o Outing) AvailableSeats() []SeatRole {
	return o.Seats.AvailableSeats()
}

// Clone returns a copy that shares no pointers with o.
func (o Outing) Clone() Outing {
	if o.EndTime != nil {
		end := *o.EndTime
		o.EndTime = &end
	}
	return o
}

// OutingSeat is the stored form of one seat slot.
type OutingSeat struct {
	bun.BaseModel `bun:"table:outing_seats"`

	OutingID  uuid.UUID     `bun:"outing_id,pk,type:uuid"`
	SeatRole  string        `bun:"seat_role,pk"`
	MemberID  uuid.NullUUID `bun:"member_id,type:uuid"`
	Status    SeatStatus    `bun:"status,notnull"`
	UpdatedAt time.Time     `bun:"updated_at,notnull"`
}

func (s *OutingSeat) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		s.UpdatedAt = time.Now().UTC()
		if s.Status == "" {
			s.Status = StatusAwaitingApproval
		}
	}
	return nil
}

func (s OutingSeat) Assignment() (SeatAssignment, error) {
	role, err := ParseSeatRole(s.SeatRole)
	if err != nil {
		return SeatAssignment{}, err
	}
	status := s.Status
	if status == "" {
		status = StatusAwaitingApproval
	}
	return SeatAssignment{Role: role, Member: s.MemberID, Status: status}, nil
}

// SeatRegistryFromRows builds a registry from stored rows. Missing rows are
// empty seats awaiting approval; rows with unknown roles are skipped.
func SeatRegistryFromRows(rows []OutingSeat) SeatRegistry {
	reg := NewSeatRegistry()
	for _, row := range rows {
		a, err := row.Assignment()
		if err != nil {
			continue
		}
		reg.set(a)
	}
	return reg
}

// SeatRows is the inverse of SeatRegistryFromRows.
func SeatRows(outingID uuid.UUID, reg SeatRegistry) []OutingSeat {
	out := make([]OutingSeat, 0, SeatCount)
	for _, a := range reg {
		out = append(out, OutingSeat{
			OutingID: outingID,
			SeatRole: a.Role.String(),
			MemberID: a.Member,
			Status:   a.Status,
		})
	}
	return out
}
