package postgres

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"crewboard/internal/domain"
)

type UnavailabilityRepo struct {
	db *bun.DB
}

func NewUnavailabilityRepo(db *bun.DB) *UnavailabilityRepo {
	return &UnavailabilityRepo{db: db}
}

// GetUnavailability returns an empty week for members with no stored days.
func (r *UnavailabilityRepo) GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error) {
	var rows []domain.UnavailabilityDay
	err := r.db.NewSelect().
		Model(&rows).
		Where("member_id = ?", memberID).
		OrderExpr("weekday ASC").
		Scan(ctx)
	if err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	return domain.WeeklyUnavailabilityFromRows(memberID, rows), nil
}

// ListUnavailability only includes members that have at least one stored day.
func (r *UnavailabilityRepo) ListUnavailability(ctx context.Context, memberIDs []uuid.UUID) (map[uuid.UUID]domain.WeeklyUnavailability, error) {
	out := make(map[uuid.UUID]domain.WeeklyUnavailability, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}

	var rows []domain.UnavailabilityDay
	err := r.db.NewSelect().
		Model(&rows).
		Where("member_id IN (?)", bun.In(memberIDs)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byMember := make(map[uuid.UUID][]domain.UnavailabilityDay)
	for _, row := range rows {
		byMember[row.MemberID] = append(byMember[row.MemberID], row)
	}
	for id, days := range byMember {
		out[id] = domain.WeeklyUnavailabilityFromRows(id, days)
	}
	return out, nil
}

func (r *UnavailabilityRepo) ReplaceDays(ctx context.Context, memberID uuid.UUID, days map[time.Weekday][]domain.TimeRange) error {
	weekdays := make([]time.Weekday, 0, len(days))
	for wd := range days {
		weekdays = append(weekdays, wd)
	}
	slices.Sort(weekdays)

	return lockedTx(ctx, r.db, "member:"+memberID.String(), func(ctx context.Context, tx bun.Tx) error {
		for _, wd := range weekdays {
			if err := replaceDay(ctx, tx, memberID, wd, days[wd]); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceDay(ctx context.Context, tx bun.Tx, memberID uuid.UUID, day time.Weekday, ranges []domain.TimeRange) error {
	if len(ranges) == 0 {
		_, err := tx.NewDelete().
			Model((*domain.UnavailabilityDay)(nil)).
			Where("member_id = ?", memberID).
			Where("weekday = ?", int16(day)).
			Exec(ctx)
		return err
	}

	m := domain.UnavailabilityDay{
		MemberID: memberID,
		Weekday:  int16(day),
		Ranges:   ranges,
	}
	_, err := tx.NewInsert().
		Model(&m).
		On("CONFLICT (member_id, weekday) DO UPDATE").
		Set("ranges = EXCLUDED.ranges").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return mapWriteError(err)
}
