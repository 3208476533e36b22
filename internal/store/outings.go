package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crewboard/internal/domain"
)

// UpcomingLookahead bounds how far ahead flag cancellation looks.
const UpcomingLookahead = 30 * 24 * time.Hour

type OutingRepository interface {
	CreateOuting(ctx context.Context, outing domain.Outing) (domain.Outing, error)
	GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error)
	ListOutings(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error)

	WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error
	WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error
	SetOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error
}

// SeatTx is the set of seat operations available while an outing's
// advisory lock is held.
type SeatTx interface {
	GetSeat(ctx context.Context, outingID uuid.UUID, role domain.SeatRole) (domain.OutingSeat, bool, error)
	UpsertSeatMember(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error
	UpsertSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error
}
