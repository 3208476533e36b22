package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crewboard/internal/domain"
)

// MaxCoxingSpan bounds one coxing availability read.
const MaxCoxingSpan = 92 * 24 * time.Hour

// CoxingRepository stores per-date cox sign-ups. Dates are civil dates at
// midnight UTC.
type CoxingRepository interface {
	// ListCoxing returns every date in [from, to] with at least one sign-up.
	ListCoxing(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error)
	// GetCoxingDay reports found=false when nobody signed up on date.
	GetCoxingDay(ctx context.Context, date time.Time) (domain.CoxingAvailability, bool, error)
	AddCoxingSignup(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error
	RemoveCoxingSignup(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error
}
