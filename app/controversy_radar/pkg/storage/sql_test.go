package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "state.db"), logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "PortfolioName-2025-W1")
	require.NoError(t, err)
	assert.Nil(t, got)

	want := sampleReport()
	require.NoError(t, s.Save(ctx, "PortfolioName-2025-W1", want))
	got, err = s.Load(ctx, "PortfolioName-2025-W1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.WeekEnding = "2025-01-06"
	require.NoError(t, s.Save(ctx, "PortfolioName-2025-W1", want))
	got, err = s.Load(ctx, "PortfolioName-2025-W1")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", got.WeekEnding)
}

func TestSQLiteStore_List(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "state.db"), logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	require.NoError(t, s.Save(ctx, "p-2025-W1", sampleReport()))
	require.NoError(t, s.Save(ctx, "p-2025-W2", sampleReport()))

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2025-W2", "p-2025-W1"}, keys)
}

func newPostgresMock(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := NewSQLStore(sqlx.NewDb(db, "postgres"), logger.Discard())
	s.now = func() time.Time { return time.Unix(0, 42) }
	t.Cleanup(func() { db.Close() })
	return s, mock
}

func TestPostgresStore_Save(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectExec(`INSERT INTO reports \(period_key, week_ending, body, saved_at\)\s+VALUES \(\$1, \$2, \$3, \$4\)\s+ON CONFLICT`).
		WithArgs("PortfolioName-2025-W3", "2025-01-05", sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), "PortfolioName-2025-W3", sampleReport()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Load(t *testing.T) {
	s, mock := newPostgresMock(t)
	want := sampleReport()
	body, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT body FROM reports WHERE period_key = \$1`).
		WithArgs("PortfolioName-2025-W3").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(body))
	mock.ExpectQuery(`SELECT body FROM reports WHERE period_key = \$1`).
		WithArgs("PortfolioName-2025-W4").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	got, err := s.Load(context.Background(), "PortfolioName-2025-W3")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = s.Load(context.Background(), "PortfolioName-2025-W4")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailureIsPersistenceError(t *testing.T) {
	s, mock := newPostgresMock(t)
	mock.ExpectQuery(`SELECT body FROM reports`).WillReturnError(assert.AnError)

	_, err := s.Load(context.Background(), "PortfolioName-2025-W3")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, assert.AnError)
}
