package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/habitflow/internal/habit"
)

// sqliteSchema is executed on every open; IF NOT EXISTS keeps it idempotent.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS habits (
    name          TEXT PRIMARY KEY,
    position      INTEGER NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    creation_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS completions (
    habit_name TEXT NOT NULL REFERENCES habits(name) ON DELETE CASCADE,
    day        TEXT NOT NULL,
    PRIMARY KEY (habit_name, day)
);
`

// SQLiteStore keeps the registry in a local SQLite database in WAL mode.
type SQLiteStore struct {
	db   *sql.DB
	opts Options
	log  *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies the
// schema.
func NewSQLiteStore(ctx context.Context, dbPath string, opts Options) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps the PRAGMAs
	// below in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		opts: opts,
		log:  opts.logger().With(zap.String("store", BackendSQLite), zap.String("path", dbPath)),
	}, nil
}

// Load reads every habit and its completions. Rows holding malformed dates
// are treated as corrupt state.
func (s *SQLiteStore) Load(ctx context.Context) (LoadResult, error) {
	type row struct {
		name, description, created string
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, creation_date FROM habits ORDER BY position, name")
	if err != nil {
		return LoadResult{}, fmt.Errorf("store: query habits: %w", err)
	}
	var habits []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.name, &r.description, &r.created); err != nil {
			rows.Close()
			return LoadResult{}, fmt.Errorf("store: scan habit: %w", err)
		}
		habits = append(habits, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("store: iterate habits: %w", err)
	}

	history, err := s.loadCompletions(ctx)
	if err != nil {
		return LoadResult{}, err
	}

	reg := habit.NewRegistry(s.opts.Clock)
	for _, r := range habits {
		created, err := habit.ParseDate(r.created)
		if err != nil {
			return s.corrupt(fmt.Errorf("habit %q creation_date: %w", r.name, err)), nil
		}
		h := habit.History{}
		for _, day := range history[r.name] {
			d, err := habit.ParseDate(day)
			if err != nil {
				return s.corrupt(fmt.Errorf("habit %q completion: %w", r.name, err)), nil
			}
			h[d] = struct{}{}
		}
		if err := reg.Restore(habit.NewRecord(r.name, r.description, created, h)); err != nil {
			return s.corrupt(err), nil
		}
	}

	s.log.Debug("loaded registry", zap.Int("habits", reg.Len()))
	return LoadResult{Registry: reg}, nil
}

func (s *SQLiteStore) loadCompletions(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT habit_name, day FROM completions ORDER BY habit_name, day")
	if err != nil {
		return nil, fmt.Errorf("store: query completions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, day string
		if err := rows.Scan(&name, &day); err != nil {
			return nil, fmt.Errorf("store: scan completion: %w", err)
		}
		out[name] = append(out[name], day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate completions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) corrupt(err error) LoadResult {
	cause := fmt.Errorf("%w: %w", habit.ErrCorruptState, err)
	s.log.Warn("database holds malformed rows, substituting an empty registry", zap.Error(cause))
	return recovered(s.opts, cause)
}

// Save replaces both tables with the contents of reg in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, reg *habit.Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM completions"); err != nil {
		return fmt.Errorf("store: clear completions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM habits"); err != nil {
		return fmt.Errorf("store: clear habits: %w", err)
	}

	habitStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO habits (name, position, description, creation_date) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare habit insert: %w", err)
	}
	defer habitStmt.Close()

	dayStmt, err := tx.PrepareContext(ctx, "INSERT INTO completions (habit_name, day) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare completion insert: %w", err)
	}
	defer dayStmt.Close()

	for i, rec := range reg.List() {
		if _, err := habitStmt.ExecContext(ctx, rec.Name, i, rec.Description, rec.Created.String()); err != nil {
			return fmt.Errorf("store: insert habit %q: %w", rec.Name, err)
		}
		for _, d := range rec.History().Dates() {
			if _, err := dayStmt.ExecContext(ctx, rec.Name, d.String()); err != nil {
				return fmt.Errorf("store: insert completion %q/%s: %w", rec.Name, d, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	s.log.Debug("saved registry", zap.Int("habits", reg.Len()))
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close database: %w", err)
	}
	return nil
}
