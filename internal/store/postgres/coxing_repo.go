package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"crewboard/internal/domain"
)

type CoxingRepo struct {
	db *bun.DB
}

func NewCoxingRepo(db *bun.DB) *CoxingRepo {
	return &CoxingRepo{db: db}
}

func (r *CoxingRepo) ListCoxing(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error) {
	var rows []domain.CoxingSignup
	err := r.db.NewSelect().
		Model(&rows).
		Where("day >= ?", domain.CivilDate(from, nil)).
		Where("day <= ?", domain.CivilDate(to, nil)).
		OrderExpr("day ASC, created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CoxingAvailabilityFromRows(rows), nil
}

func (r *CoxingRepo) GetCoxingDay(ctx context.Context, date time.Time) (domain.CoxingAvailability, bool, error) {
	day := domain.CivilDate(date, nil)

	var rows []domain.CoxingSignup
	err := r.db.NewSelect().
		Model(&rows).
		Where("day = ?", day).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return domain.CoxingAvailability{}, false, err
	}
	days := domain.CoxingAvailabilityFromRows(rows)
	if len(days) == 0 {
		return domain.NewCoxingAvailability(day), false, nil
	}
	return days[0], true, nil
}

// AddCoxingSignup is idempotent. An unknown member maps to store.ErrNotFound.
func (r *CoxingRepo) AddCoxingSignup(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error {
	m := domain.CoxingSignup{
		Day:      domain.CivilDate(date, nil),
		Slot:     slot,
		MemberID: memberID,
	}
	_, err := r.db.NewInsert().
		Model(&m).
		On("CONFLICT (day, slot, member_id) DO NOTHING").
		Exec(ctx)
	return mapWriteError(err)
}

func (r *CoxingRepo) RemoveCoxingSignup(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*domain.CoxingSignup)(nil)).
		Where("day = ?", domain.CivilDate(date, nil)).
		Where("slot = ?", slot).
		Where("member_id = ?", memberID).
		Exec(ctx)
	return err
}
