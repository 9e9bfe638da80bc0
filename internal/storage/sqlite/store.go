// Package sqlite provides the SQLite document store behind the stub API.
// Every resource shares one table; rows are JSON objects keyed by id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	resource   TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (resource, id)
);
CREATE INDEX IF NOT EXISTS idx_records_created ON records (resource, created_at);
`

var resourcePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Document is one stored record. The "id" key holds its identifier.
type Document map[string]any

// ID returns the identifier of the document, or "".
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Record is a document with its bookkeeping columns.
type Record struct {
	Resource  string
	Body      Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a SQLite-backed document store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates a store at path. An empty path or ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	dsn := strings.TrimSpace(path)
	if dsn == "" || dsn == ":memory:" {
		dsn = ":memory:"
	} else if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite store: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return nil
}

func validateResource(resource string) error {
	if !resourcePattern.MatchString(resource) {
		return fmt.Errorf("sqlite store: %w: %q", ErrInvalidResource, resource)
	}
	return nil
}

// List returns every record of resource, newest first.
func (s *Store) List(ctx context.Context, resource string) ([]Record, error) {
	if err := validateResource(resource); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT body, created_at, updated_at FROM records WHERE resource = ? ORDER BY created_at DESC, rowid DESC`,
		resource)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list %s: %w", resource, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(resource, rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite store: list %s: %w", resource, err)
	}
	return records, nil
}

// Get returns one record.
func (s *Store) Get(ctx context.Context, resource, id string) (Record, error) {
	if err := validateResource(resource); err != nil {
		return Record{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT body, created_at, updated_at FROM records WHERE resource = ? AND id = ?`,
		resource, id)
	rec, err := scanRecord(resource, row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("sqlite store: get %s: %w: id %s", resource, ErrRecordNotFound, id)
	}
	return rec, err
}

// Put inserts or replaces doc. A document without an id gets a new uuid.
// The creation time of an existing record is kept.
func (s *Store) Put(ctx context.Context, resource string, doc Document) (Record, error) {
	if err := validateResource(resource); err != nil {
		return Record{}, err
	}
	if doc == nil {
		return Record{}, fmt.Errorf("sqlite store: put %s: %w", resource, ErrInvalidBody)
	}
	body := make(Document, len(doc)+1)
	for k, v := range doc {
		body[k] = v
	}
	if body.ID() == "" {
		body["id"] = uuid.NewString()
	}
	data, err := json.Marshal(body)
	if err != nil {
		return Record{}, fmt.Errorf("sqlite store: put %s: %w: %v", resource, ErrInvalidBody, err)
	}

	now := s.now().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (resource, id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (resource, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		resource, body.ID(), string(data), now, now)
	if err != nil {
		return Record{}, fmt.Errorf("sqlite store: put %s: %w", resource, err)
	}
	return s.Get(ctx, resource, body.ID())
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, resource, id string) error {
	if err := validateResource(resource); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE resource = ? AND id = ?`, resource, id)
	if err != nil {
		return fmt.Errorf("sqlite store: delete %s: %w", resource, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite store: read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sqlite store: delete %s: %w: id %s", resource, ErrRecordNotFound, id)
	}
	return nil
}

// Count returns the number of records of resource.
func (s *Store) Count(ctx context.Context, resource string) (int, error) {
	if err := validateResource(resource); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE resource = ?`, resource).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite store: count %s: %w", resource, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(resource string, row scanner) (Record, error) {
	var body, created, updated string
	if err := row.Scan(&body, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("sqlite store: scan %s: %w", resource, err)
	}
	rec := Record{Resource: resource}
	if err := json.Unmarshal([]byte(body), &rec.Body); err != nil {
		return Record{}, fmt.Errorf("sqlite store: decode %s: %w: %v", resource, ErrInvalidBody, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return rec, nil
}
