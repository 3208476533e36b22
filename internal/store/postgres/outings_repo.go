package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"crewboard/internal/domain"
	"crewboard/internal/store"
)

type OutingRepo struct {
	db *bun.DB
}

func NewOutingRepo(db *bun.DB) *OutingRepo {
	return &OutingRepo{db: db}
}

type seatTx struct {
	tx bun.Tx
}

func (r *OutingRepo) CreateOuting(ctx context.Context, outing domain.Outing) (domain.Outing, error) {
	m := outing.Clone()
	if m.Seats == (domain.SeatRegistry{}) {
		m.Seats = domain.NewSeatRegistry()
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			return err
		}
		rows := domain.SeatRows(m.ID, m.Seats)
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return domain.Outing{}, mapWriteError(err)
	}
	return m, nil
}

func (r *OutingRepo) GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error) {
	var o domain.Outing
	err := r.db.NewSelect().
		Model(&o).
		Where("id = ?", outingID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Outing{}, store.ErrNotFound
		}
		return domain.Outing{}, err
	}

	var seats []domain.OutingSeat
	err = r.db.NewSelect().
		Model(&seats).
		Where("outing_id = ?", outingID).
		Scan(ctx)
	if err != nil {
		return domain.Outing{}, err
	}
	o.Seats = domain.SeatRegistryFromRows(seats)
	return o, nil
}

// ListOutings returns outings overlapping the window, ordered by start. An
// outing without an end time counts as an instant at its start.
func (r *OutingRepo) ListOutings(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error) {
	var rows []domain.Outing
	err := r.db.NewSelect().
		Model(&rows).
		Where("start_time < ?", windowEnd).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("end_time > ?", windowStart).
				WhereOr("end_time IS NULL AND start_time >= ?", windowStart)
		}).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, o := range rows {
		ids = append(ids, o.ID)
	}

	var seats []domain.OutingSeat
	err = r.db.NewSelect().
		Model(&seats).
		Where("outing_id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byOuting := make(map[uuid.UUID][]domain.OutingSeat, len(rows))
	for _, s := range seats {
		byOuting[s.OutingID] = append(byOuting[s.OutingID], s)
	}
	for i := range rows {
		rows[i].Seats = domain.SeatRegistryFromRows(byOuting[rows[i].ID])
	}
	return rows, nil
}

func (r *OutingRepo) WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error {
	return r.InOutingTransaction(ctx, outingID, func(ctx context.Context, tx store.SeatTx) error {
		return tx.UpsertSeatMember(ctx, outingID, role, member)
	})
}

func (r *OutingRepo) WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error {
	return r.InOutingTransaction(ctx, outingID, func(ctx context.Context, tx store.SeatTx) error {
		if status.IsSettable() {
			seat, ok, err := tx.GetSeat(ctx, outingID, role)
			if err != nil {
				return err
			}
			if !ok || !seat.MemberID.Valid {
				return store.ErrSeatVacant
			}
		}
		return tx.UpsertSeatStatus(ctx, outingID, role, status)
	})
}

func (r *OutingRepo) SetOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error {
	res, err := r.db.NewUpdate().
		Table("outings").
		Set("outing_status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", outingID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InOutingTransaction serializes seat writes for one outing.
func (r *OutingRepo) InOutingTransaction(ctx context.Context, outingID uuid.UUID, fn func(ctx context.Context, tx store.SeatTx) error) error {
	return lockedTx(ctx, r.db, "outing:"+outingID.String(), func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, seatTx{tx: tx})
	})
}

func (r seatTx) GetSeat(ctx context.Context, outingID uuid.UUID, role domain.SeatRole) (domain.OutingSeat, bool, error) {
	var seat domain.OutingSeat
	err := r.tx.NewSelect().
		Model(&seat).
		Where("outing_id = ?", outingID).
		Where("seat_role = ?", role.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OutingSeat{}, false, nil
		}
		return domain.OutingSeat{}, false, err
	}
	return seat, true, nil
}

func (r seatTx) UpsertSeatMember(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error {
	m := domain.OutingSeat{
		OutingID: outingID,
		SeatRole: role.String(),
		MemberID: member,
		Status:   domain.StatusAwaitingApproval,
	}
	_, err := r.tx.NewInsert().
		Model(&m).
		On("CONFLICT (outing_id, seat_role) DO UPDATE").
		Set("member_id = EXCLUDED.member_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return mapWriteError(err)
}

func (r seatTx) UpsertSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error {
	m := domain.OutingSeat{
		OutingID: outingID,
		SeatRole: role.String(),
		Status:   status,
	}
	_, err := r.tx.NewInsert().
		Model(&m).
		On("CONFLICT (outing_id, seat_role) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return store.ErrNotFound
		case "23505":
			return store.ErrConflict
		}
	}
	return err
}
