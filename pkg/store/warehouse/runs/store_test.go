package runs

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/fleximart/pkg/models/store"
	"github.com/de-tools/fleximart/pkg/store/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupTestDB(t *testing.T) *sql.DB {
	db, err := warehouse.NewDuckDB(":memory:")
	require.NoError(t, err)
	return db
}

func lookupDialect(t *testing.T, name string) warehouse.Dialect {
	d, err := warehouse.LookupDialect(name)
	require.NoError(t, err)
	return d
}

func setupFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	store, err := NewStore(db, lookupDialect(t, warehouse.DuckDB))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		store, err := NewStore(nil, lookupDialect(t, warehouse.DuckDB))
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestStore_Start(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, f.store.Start(ctx, "run-1", started))

	run, err := f.store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, store.RunStatusRunning, run.Status)
	assert.True(t, started.Equal(run.StartedAt), "started_at %s", run.StartedAt)
	assert.Nil(t, run.FinishedAt)
	assert.Nil(t, run.Error)
}

func TestStore_Finish(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		require.NoError(t, f.store.Start(ctx, "run-ok", started))
		require.NoError(t, f.store.Finish(ctx, "run-ok", started.Add(time.Minute), nil))

		run, err := f.store.Get(ctx, "run-ok")
		require.NoError(t, err)
		assert.Equal(t, store.RunStatusSucceeded, run.Status)
		require.NotNil(t, run.FinishedAt)
		assert.True(t, started.Add(time.Minute).Equal(*run.FinishedAt))
		assert.Nil(t, run.Error)
	})

	t.Run("failure", func(t *testing.T) {
		require.NoError(t, f.store.Start(ctx, "run-failed", started))
		require.NoError(t, f.store.Finish(ctx, "run-failed", started.Add(time.Minute), errors.New("boom")))

		run, err := f.store.Get(ctx, "run-failed")
		require.NoError(t, err)
		assert.Equal(t, store.RunStatusFailed, run.Status)
		require.NotNil(t, run.Error)
		assert.Equal(t, "boom", *run.Error)
	})

	t.Run("unknown run", func(t *testing.T) {
		err := f.store.Finish(ctx, "nope", started, nil)
		assert.ErrorIs(t, err, ErrRunNotFound)
	})
}

func TestStore_Get_NotFound(t *testing.T) {
	f := setupFixture(t)

	run, err := f.store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.Nil(t, run)
}

func TestStore_QuotedIdentifiers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db, lookupDialect(t, warehouse.Snowflake))
	require.NoError(t, err)

	ctx := context.Background()
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO "etl_runs" ("run_id", "started_at", "status") VALUES (?, ?, ?)`)).
		WithArgs("run-1", started, store.RunStatusRunning).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "etl_runs" SET "finished_at" = ?, "status" = ?, "error" = ? WHERE "run_id" = ?`)).
		WithArgs(started.Add(time.Minute), store.RunStatusFailed, "boom", "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT "run_id", "started_at", "finished_at", "status", "error" FROM "etl_runs" WHERE "run_id" = ?`)).
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"run_id", "started_at", "finished_at", "status", "error"}).
			AddRow("run-1", started, started.Add(time.Minute), store.RunStatusFailed, "boom"))

	require.NoError(t, s.Start(ctx, "run-1", started))
	require.NoError(t, s.Finish(ctx, "run-1", started.Add(time.Minute), errors.New("boom")))

	run, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.RunStatusFailed, run.Status)
	require.NotNil(t, run.Error)
	assert.Equal(t, "boom", *run.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildQueries_Databricks(t *testing.T) {
	q := buildQueries(lookupDialect(t, warehouse.Databricks))
	assert.Equal(t, "INSERT INTO `etl_runs` (`run_id`, `started_at`, `status`) VALUES (?, ?, ?)", q.insert)
}
