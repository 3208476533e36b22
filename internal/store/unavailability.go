package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crewboard/internal/domain"
)

type UnavailabilityRepository interface {
	GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error)
	ListUnavailability(ctx context.Context, memberIDs []uuid.UUID) (map[uuid.UUID]domain.WeeklyUnavailability, error)
	// ReplaceDays overwrites every given day atomically.
	ReplaceDays(ctx context.Context, memberID uuid.UUID, days map[time.Weekday][]domain.TimeRange) error
}

type MemberRepository interface {
	CreateMember(ctx context.Context, member domain.Member) (domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, memberID uuid.UUID) (domain.Member, error)
}
