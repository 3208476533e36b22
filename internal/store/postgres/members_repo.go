package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"crewboard/internal/domain"
	"crewboard/internal/store"
)

type MemberRepo struct {
	db *bun.DB
}

func NewMemberRepo(db *bun.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

func (r *MemberRepo) CreateMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	m := member
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Member{}, mapWriteError(err)
	}
	return m, nil
}

func (r *MemberRepo) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var rows []domain.Member
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MemberRepo) GetMember(ctx context.Context, memberID uuid.UUID) (domain.Member, error) {
	var m domain.Member
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", memberID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, store.ErrNotFound
		}
		return domain.Member{}, err
	}
	return m, nil
}
