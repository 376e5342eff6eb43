// Package runs keeps the etl_runs log: one row per batch with its outcome.
package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/fleximart/pkg/models/store"
	"github.com/de-tools/fleximart/pkg/store/warehouse"
)

var ErrRunNotFound = errors.New("run not found")

type Store interface {
	Start(ctx context.Context, runID string, startedAt time.Time) error
	Finish(ctx context.Context, runID string, finishedAt time.Time, runErr error) error
	Get(ctx context.Context, runID string) (*store.Run, error)
}

type queries struct {
	insert string
	update string
	get    string
}

type defaultStore struct {
	db      *sql.DB
	queries queries
}

// NewStore quotes the run log identifiers the same way the destination's
// boot queries created them.
func NewStore(db *sql.DB, dialect warehouse.Dialect) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db:      db,
		queries: buildQueries(dialect),
	}, nil
}

func buildQueries(d warehouse.Dialect) queries {
	var (
		table      = d.Quote(store.RunsTable)
		runID      = d.Quote("run_id")
		startedAt  = d.Quote("started_at")
		finishedAt = d.Quote("finished_at")
		status     = d.Quote("status")
		message    = d.Quote("error")
	)
	return queries{
		insert: fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)`,
			table, runID, startedAt, status),
		update: fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ? WHERE %s = ?`,
			table, finishedAt, status, message, runID),
		get: fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = ?`,
			runID, startedAt, finishedAt, status, message, table, runID),
	}
}

func (s *defaultStore) Start(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, s.queries.insert, runID, startedAt.UTC(), store.RunStatusRunning)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}
	return nil
}

func (s *defaultStore) Finish(ctx context.Context, runID string, finishedAt time.Time, runErr error) error {
	status := store.RunStatusSucceeded
	var message sql.NullString
	if runErr != nil {
		status = store.RunStatusFailed
		message = sql.NullString{String: runErr.Error(), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, s.queries.update, finishedAt.UTC(), status, message, runID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, runID string) (*store.Run, error) {
	var (
		run        store.Run
		finishedAt sql.NullTime
		message    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.queries.get, runID).
		Scan(&run.ID, &run.StartedAt, &finishedAt, &run.Status, &message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	if message.Valid {
		m := message.String
		run.Error = &m
	}
	return &run, nil
}
