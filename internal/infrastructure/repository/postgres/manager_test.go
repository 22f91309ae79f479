package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockQuery = "SELECT public_id FROM competitions WHERE public_id = $1 FOR UPDATE"

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestManager_InCompetitionLocksAndCommits(t *testing.T) {
	db, mock := newMockDB(t)
	manager := NewManager(db)

	created := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"public_id"}).AddRow("c1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + roundColumns + " FROM rounds WHERE public_id = $1")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{
			"public_id", "competition_public_id", "round_number", "winner_entry_public_id", "ended_at",
			"tiebreak_status", "tiebreak_type", "tiebreak_stage", "tiebreak_deadline", "created_at",
		}).AddRow("r1", "c1", 1, nil, nil, "none", "", 0, nil, created))
	mock.ExpectCommit()

	err := manager.InCompetition(context.Background(), "c1", func(ctx context.Context, repos store.Repositories) error {
		item, ok, err := repos.Rounds.GetByID(ctx, "r1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1, item.Number)
		assert.True(t, item.IsActive())
		assert.Empty(t, item.WinnerEntryID)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_InCompetitionRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	manager := NewManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"public_id"}))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := manager.InCompetition(context.Background(), "c1", func(context.Context, store.Repositories) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_InCompetitionRetriesSerializationFailure(t *testing.T) {
	db, mock := newMockDB(t)
	manager := NewManager(db)

	for attempt := range 2 {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"public_id"}).AddRow("c1"))
		if attempt == 0 {
			mock.ExpectRollback()
		}
	}
	mock.ExpectCommit()

	calls := 0
	err := manager.InCompetition(context.Background(), "c1", func(context.Context, store.Repositories) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: pqSerializationFailure}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_ReadUsesReadOnlyTx(t *testing.T) {
	db, mock := newMockDB(t)
	manager := NewManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + competitionColumns + " FROM competitions ORDER BY created_at, public_id")).
		WillReturnRows(sqlmock.NewRows([]string{
			"public_id", "name", "lock_policy", "result_policy", "lives_per_round", "is_active",
			"current_round_public_id", "created_at", "updated_at",
		}).AddRow("c1", "LMS", "kickoff", "strict", 2, true, "r1", time.Now(), time.Now()))
	mock.ExpectCommit()

	err := manager.Read(context.Background(), func(ctx context.Context, repos store.Repositories) error {
		items, err := repos.Competitions.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "r1", items[0].CurrentRoundID)
		assert.Equal(t, 2, items[0].LivesPerRound)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
