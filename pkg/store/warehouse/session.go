// Package warehouse is the destination store of a batch. A Session owns one
// database handle for the whole run and appends cleaned tables to it.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/fleximart/pkg/models/store"
	"github.com/rs/zerolog"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

// txKey scopes the open transaction of one Append to its statements.
type txKey struct{}

func contextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type Session struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the destination named by dsn, e.g. duckdb://fleximart.db
// or sqlite://fleximart.sqlite, and creates the fixed tables. The caller
// must Close the session.
func Open(ctx context.Context, dsn string) (*Session, error) {
	dialect, conn, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if dialect.Name == DuckDB {
		db, err = NewDuckDB(conn)
	} else {
		db, err = sql.Open(dialect.Driver, conn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s destination: %w", dialect.Name, err)
	}
	if dialect.Name == SQLite {
		// an in-memory database lives and dies with its connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s destination: %w", dialect.Name, err)
	}

	s, err := NewSession(db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if dialect.Name != DuckDB {
		if err := s.Boot(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

func NewSession(db *sql.DB, dialect Dialect) (*Session, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &Session{
		db:      db,
		dialect: dialect,
	}, nil
}

func (s *Session) DB() *sql.DB {
	return s.db
}

func (s *Session) Dialect() Dialect {
	return s.dialect
}

func (s *Session) Close() error {
	return s.db.Close()
}

// Boot creates the run log, orders and order_items tables if needed.
func (s *Session) Boot(ctx context.Context) error {
	for _, query := range bootQueries(s.dialect) {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("boot query failed: %w", err)
		}
	}
	return nil
}

// Append adds every row of batch to its table, creating the table first
// when it does not exist. On a transactional destination the table is
// written all-or-nothing; tables are never written together.
func (s *Session) Append(ctx context.Context, batch store.TableBatch) (err error) {
	logger := zerolog.Ctx(ctx).With().Str("table", batch.Name).Logger()

	if s.dialect.Transactional {
		var tx *sql.Tx
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin %s transaction: %w", batch.Name, err)
		}
		defer func() {
			if err == nil {
				err = tx.Commit()
				if err != nil {
					err = fmt.Errorf("failed to commit %s: %w", batch.Name, err)
				}
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Warn().Err(rbErr).Msg("failed to roll back")
			}
		}()
		ctx = contextWithTx(ctx, tx)
	}

	if _, err := s.exec(ctx, s.dialect.CreateTableSQL(batch.Name, batch.Columns)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", batch.Name, err)
	}
	if err := s.insert(ctx, batch); err != nil {
		return err
	}

	logger.Info().Int("rows", len(batch.Rows)).Msg("table appended")
	return nil
}

func (s *Session) insert(ctx context.Context, batch store.TableBatch) error {
	if len(batch.Rows) == 0 {
		return nil
	}

	query := s.dialect.InsertSQL(batch.Name, batch.Columns)
	var stmt *sql.Stmt
	var err error
	if tx := txFromContext(ctx); tx != nil {
		stmt, err = tx.PrepareContext(ctx, query)
	} else {
		stmt, err = s.db.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range batch.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", batch.Name, i+1, err)
		}
	}
	return nil
}

func (s *Session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}
