package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases with another version are rejected.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Decision is one recorded accept/reject event.
type Decision struct {
	ID        int64
	Identity  string
	Position  int
	GroupName string
	FinalName string
	Accepted  bool
	DecidedAt time.Time
}

// Stats summarizes a reviewer's decisions.
type Stats struct {
	Accepted int
	Rejected int
}

// Total returns the number of recorded decisions.
func (s Stats) Total() int {
	return s.Accepted + s.Rejected
}

// Store manages decision persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record appends a decision. DecidedAt defaults to now when zero.
func (s *Store) Record(ctx context.Context, decision Decision) error {
	decidedAt := decision.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO decisions (identity, position, group_name, final_name, accepted, decided_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		decision.Identity,
		decision.Position,
		decision.GroupName,
		decision.FinalName,
		boolToInt(decision.Accepted),
		decidedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// ListByIdentity returns an identity's decisions in recorded order.
func (s *Store) ListByIdentity(ctx context.Context, identity string) ([]Decision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, identity, position, group_name, final_name, accepted, decided_at
         FROM decisions WHERE identity = ? ORDER BY id`,
		identity,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var (
			d        Decision
			accepted int
			decided  string
		)
		if err := rows.Scan(&d.ID, &d.Identity, &d.Position, &d.GroupName, &d.FinalName, &accepted, &decided); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.Accepted = accepted != 0
		if ts, err := time.Parse(time.RFC3339Nano, decided); err == nil {
			d.DecidedAt = ts
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// StatsByIdentity counts an identity's accepted and rejected decisions.
func (s *Store) StatsByIdentity(ctx context.Context, identity string) (Stats, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT accepted, COUNT(1) FROM decisions WHERE identity = ? GROUP BY accepted`,
		identity,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("decision stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var accepted, count int
		if err := rows.Scan(&accepted, &count); err != nil {
			return Stats{}, err
		}
		if accepted != 0 {
			stats.Accepted = count
		} else {
			stats.Rejected = count
		}
	}
	return stats, rows.Err()
}

// ClearIdentity removes all of an identity's decisions.
func (s *Store) ClearIdentity(ctx context.Context, identity string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM decisions WHERE identity = ?`, identity)
	if err != nil {
		return 0, fmt.Errorf("clear decisions: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
