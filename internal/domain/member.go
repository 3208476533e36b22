package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CoxExperience string

const (
	CoxNoviceFirstTerm CoxExperience = "Novice (less than 1 term)"
	CoxNovice          CoxExperience = "Novice"
	CoxExperienced     CoxExperience = "Experienced"
	CoxSenior          CoxExperience = "Senior"
)

func (e CoxExperience) Valid() bool {
	switch e {
	case CoxNoviceFirstTerm, CoxNovice, CoxExperienced, CoxSenior:
		return true
	}
	return false
}

// ParseCoxExperience matches the labels case-insensitively and also takes
// "first-term" for the first-term novice level. Empty input means none.
func ParseCoxExperience(s string) (CoxExperience, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch n {
	case "":
		return "", nil
	case "first-term", "novice-first-term", strings.ToLower(string(CoxNoviceFirstTerm)):
		return CoxNoviceFirstTerm, nil
	case "novice":
		return CoxNovice, nil
	case "experienced":
		return CoxExperienced, nil
	case "senior":
		return CoxSenior, nil
	}
	return "", validationErrorf("unknown cox experience: %s", s)
}

type Member struct {
	bun.BaseModel `bun:"table:members"`

	ID            uuid.UUID     `bun:"id,pk,type:uuid" json:"id"`
	Name          string        `bun:"name,notnull" json:"name"`
	Role          string        `bun:"member_role" json:"role,omitempty"`
	CoxExperience CoxExperience `bun:"cox_experience" json:"cox_experience,omitempty"`
	CreatedAt     time.Time     `bun:"created_at,notnull" json:"created_at"`
}

func (m *Member) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if m.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.ID = id
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}
