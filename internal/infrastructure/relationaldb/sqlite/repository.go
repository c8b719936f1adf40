// Package sqlite provides a SQLite implementation of the RecordStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrCorruptRecord is wrapped by errors for rows whose stored data cannot be
// decoded or does not match its key.
var ErrCorruptRecord = errors.New("corrupt record")

// timeLayout is fixed-width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.RecordStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite allows one writer at a time. A single connection also keeps
	// ":memory:" databases from splitting across the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- One row per distinct string, keyed by the SHA-256 of its bytes
	CREATE TABLE IF NOT EXISTS strings (
		digest TEXT PRIMARY KEY,
		value TEXT NOT NULL UNIQUE,
		properties TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_strings_created ON strings(created_at);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		digest TEXT,
		details TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_digest ON audit_log(digest);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Create stores a new record unless one with the same digest exists.
// The insert and the read-back run in one transaction, so concurrent
// creates of the same string agree on a single first writer.
func (r *Repository) Create(ctx context.Context, value string, props entities.PropertySet) (*entities.StringRecord, bool, error) {
	data, err := json.Marshal(props)
	if err != nil {
		return nil, false, fmt.Errorf("marshaling properties: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO strings (digest, value, properties, created_at)
		VALUES (?, ?, ?, ?)
	`,
		props.Digest,
		value,
		string(data),
		formatTime(timeNow()),
	)
	if err != nil {
		return nil, false, fmt.Errorf("inserting string: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("reading rows affected: %w", err)
	}

	// Always fetch the record (either newly inserted or pre-existing)
	rec, err := scanRecord(tx.QueryRowContext(ctx, selectRecord+` WHERE digest = ?`, props.Digest))
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, fmt.Errorf("string %s vanished during create", props.Digest)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing create: %w", err)
	}

	return rec, inserted == 1, nil
}

// FindByDigest finds a record by its digest. Returns nil if absent.
func (r *Repository) FindByDigest(ctx context.Context, digest string) (*entities.StringRecord, error) {
	return scanRecord(r.db.QueryRowContext(ctx, selectRecord+` WHERE digest = ?`, digest))
}

// DeleteByDigest deletes a record and reports whether it existed.
func (r *Repository) DeleteByDigest(ctx context.Context, digest string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM strings WHERE digest = ?`, digest)
	if err != nil {
		return false, fmt.Errorf("deleting string: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return rows > 0, nil
}

// List returns all records, newest first. Ties on created_at fall back to
// insertion order.
func (r *Repository) List(ctx context.Context) ([]entities.StringRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectRecord+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying strings: %w", err)
	}
	defer rows.Close()

	result := make([]entities.StringRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

const selectRecord = `SELECT digest, value, properties, created_at FROM strings`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord decodes one row. A missing row yields nil, nil. Rows whose
// properties cannot be decoded are reported as corrupt rather than returned
// with empty properties.
func scanRecord(row rowScanner) (*entities.StringRecord, error) {
	var (
		rec       entities.StringRecord
		props     string
		createdAt string
	)
	err := row.Scan(&rec.Digest, &rec.Value, &props, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning string: %w", err)
	}

	if err := json.Unmarshal([]byte(props), &rec.Properties); err != nil {
		return nil, fmt.Errorf("%w: decoding properties of %s: %v", ErrCorruptRecord, rec.Digest, err)
	}
	if rec.Properties.Digest != rec.Digest {
		return nil, fmt.Errorf("%w: properties of %s carry digest %q", ErrCorruptRecord, rec.Digest, rec.Properties.Digest)
	}
	if rec.Properties.CharacterFrequencyMap == nil {
		rec.Properties.CharacterFrequencyMap = map[string]int{}
	}

	rec.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: created_at of %s: %v", ErrCorruptRecord, rec.Digest, err)
	}

	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
