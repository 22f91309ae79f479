package postgres

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
)

const tiebreakColumns = "public_id, round_public_id, entry_public_id, stage, score, attempt_used, submitted_at, created_at"

type tiebreakTableModel struct {
	PublicID    string     `db:"public_id"`
	RoundID     string     `db:"round_public_id"`
	EntryID     string     `db:"entry_public_id"`
	Stage       int        `db:"stage"`
	Score       *int       `db:"score"`
	AttemptUsed bool       `db:"attempt_used"`
	SubmittedAt *time.Time `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (m tiebreakTableModel) toDomain() tiebreak.Participant {
	return tiebreak.Participant{
		ID:          m.PublicID,
		RoundID:     m.RoundID,
		EntryID:     m.EntryID,
		Stage:       m.Stage,
		Score:       m.Score,
		AttemptUsed: m.AttemptUsed,
		SubmittedAt: m.SubmittedAt,
		CreatedAt:   m.CreatedAt,
	}
}
