package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion is bumped whenever a new file lands under
// migrations/; each migration is idempotent and applied in order the first
// time a DB is opened at a lower version, following the teacher's
// internal/memory/db.go migrate() shape.
const currentSchemaVersion = 1

// migrations maps a target version to the SQL that gets a DB there from the
// previous one. Empty today: schema.sql alone reaches version 1. Future
// schema changes land here as 002_*.sql, go:embed'd the same way.
var migrations = map[int]string{}

// DB wraps the embedded SQLite handle. Every exported Store method takes a
// *DB receiver; none hold state beyond the pool.
type DB struct {
	sql *sql.DB
	log zerolog.Logger
}

// Open creates the database file and parent directories if absent, then
// runs migrations. The busy_timeout and WAL pragmas mirror the teacher's
// connection string; foreign_keys is on so dependency/assignment rows can't
// dangle.
func Open(path string, log zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers anyway; avoid SQLITE_BUSY churn

	db := &DB{sql: sqlDB, log: log}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return db, nil
}

func (db *DB) migrate() error {
	if _, err := db.sql.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply base schema: %w", err)
	}

	var version int
	err := db.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
	if err != nil {
		if err != sql.ErrNoRows {
			return fmt.Errorf("read schema version: %w", err)
		}
		version = 0
	}

	for v := version + 1; v <= currentSchemaVersion; v++ {
		if stmt, ok := migrations[v]; ok {
			db.log.Info().Int("version", v).Msg("running schema migration")
			if _, err := db.sql.Exec(stmt); err != nil {
				return fmt.Errorf("run migration %d: %w", v, err)
			}
		}
	}

	if version != currentSchemaVersion {
		if _, err := db.sql.Exec("INSERT INTO schema_version(version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.sql.Close()
}

// WithTx runs fn inside a single transaction, rolling back on any error it
// returns and on panic, following the teacher's internal/memory/db.go
// withTx. Exported so callers needing several store mutations to commit or
// roll back together — batch completion, in particular — can compose
// tx-scoped store helpers (GetTaskTx, CompleteTx, ...) instead of each
// mutator opening its own transaction.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// withTx is the context-free shorthand every single-statement-group mutator
// uses; WithTx is for callers that need an explicit context or span several
// mutators in one transaction.
func (db *DB) withTx(fn func(*sql.Tx) error) error {
	return db.WithTx(context.Background(), fn)
}

// queryRower is satisfied by *sql.DB and *sql.Tx, letting read helpers run
// either standalone or inside an explicit transaction.
type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

// execer is satisfied by *sql.DB and *sql.Tx, letting mutating helpers run
// either standalone or inside an explicit transaction.
type execer interface {
	queryRower
	Exec(query string, args ...any) (sql.Result, error)
}
