package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

const defaultTxAttempts = 3

// Manager runs engine operations in Postgres transactions. InCompetition
// uses SERIALIZABLE isolation and locks the competition row first, so two
// operations on the same competition never interleave.
type Manager struct {
	db       *sqlx.DB
	attempts int
}

func NewManager(db *sqlx.DB) *Manager {
	return &Manager{db: db, attempts: defaultTxAttempts}
}

func (m *Manager) Read(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return errors.Wrap(err, "begin read tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit read tx")
	}
	return nil
}

// InCompetition retries fn when Postgres aborts the transaction with a
// serialization failure or deadlock.
func (m *Manager) InCompetition(ctx context.Context, competitionID string, fn func(ctx context.Context, repos store.Repositories) error) error {
	attempts := m.attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = m.inCompetitionOnce(ctx, competitionID, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return errors.Wrapf(err, "competition %s tx failed after %d attempts", competitionID, attempts)
}

func (m *Manager) inCompetitionOnce(ctx context.Context, competitionID string, fn func(ctx context.Context, repos store.Repositories) error) error {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return errors.Wrap(err, "begin competition tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockCompetition(ctx, tx, competitionID); err != nil {
		return err
	}
	if err := fn(ctx, repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit competition tx")
	}
	return nil
}

// lockCompetition takes the row lock; a competition that is being created
// has no row yet and is serialized by the primary key instead.
func lockCompetition(ctx context.Context, tx *sqlx.Tx, competitionID string) error {
	query, args, err := qb.Select("public_id").From("competitions").
		Where(qb.Eq("public_id", competitionID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build competition lock query")
	}

	var locked []string
	if err := sqlx.SelectContext(ctx, tx, &locked, query, args...); err != nil {
		return errors.Wrapf(err, "lock competition %s", competitionID)
	}
	return nil
}

func repositories(db queryer) store.Repositories {
	return store.Repositories{
		Competitions: NewCompetitionRepository(db),
		Gameweeks:    NewGameweekRepository(db),
		Fixtures:     NewFixtureRepository(db),
		Rounds:       NewRoundRepository(db),
		Entries:      NewEntryRepository(db),
		Picks:        NewPickRepository(db),
		Tiebreaks:    NewTiebreakRepository(db),
		Exactos:      NewExactoRepository(db),
	}
}
