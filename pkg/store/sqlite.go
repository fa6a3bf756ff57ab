// Package store persists contact records and resolution audit rows in a
// local SQLite database. It implements resolve.RecordStore.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/dealflowhq/contactfinder/pkg/resolve"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	company_domain TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts (lower(first_name), lower(last_name));

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	record_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	detail TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_record ON audit_log (record_id);
`

// updatableColumns is the allowlist for UpdateFields.
var updatableColumns = map[string]bool{
	"email":          true,
	"phone":          true,
	"title":          true,
	"company_name":   true,
	"company_domain": true,
	"linkedin_url":   true,
}

// DB is a SQLite-backed contact store.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids lock errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Upsert inserts the record, generating an ID when absent, or replaces the
// row with the same ID. Returns the record's ID.
func (d *DB) Upsert(ctx context.Context, rec *resolve.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO contacts (id, first_name, last_name, email, phone, title,
			company_name, company_domain, linkedin_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name=excluded.first_name, last_name=excluded.last_name,
			email=excluded.email, phone=excluded.phone, title=excluded.title,
			company_name=excluded.company_name,
			company_domain=excluded.company_domain,
			linkedin_url=excluded.linkedin_url, updated_at=excluded.updated_at`,
		rec.ID, rec.FirstName, rec.LastName, rec.Email, rec.Phone, rec.Title,
		rec.CompanyName, rec.CompanyDomain, rec.LinkedInURL, now())
	if err != nil {
		return "", fmt.Errorf("upsert contact: %w", err)
	}
	return rec.ID, nil
}

// FindByName returns the most recently updated record whose name contains
// the given first and last name, case-insensitively. Returns (nil, nil)
// when no record matches.
func (d *DB) FindByName(ctx context.Context, firstName, lastName string) (*resolve.Record, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, phone, title,
			company_name, company_domain, linkedin_url
		FROM contacts
		WHERE instr(lower(first_name), lower(?)) > 0
		  AND instr(lower(last_name), lower(?)) > 0
		ORDER BY updated_at DESC
		LIMIT 1`,
		strings.TrimSpace(firstName), strings.TrimSpace(lastName))
	return scanRecord(row)
}

// FindByLinkedIn returns the most recently updated record whose LinkedIn URL
// contains the given fragment. Returns (nil, nil) when no record matches.
func (d *DB) FindByLinkedIn(ctx context.Context, urlFragment string) (*resolve.Record, error) {
	if strings.TrimSpace(urlFragment) == "" {
		return nil, nil //nolint:nilnil // absence is a valid result
	}
	row := d.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, phone, title,
			company_name, company_domain, linkedin_url
		FROM contacts
		WHERE linkedin_url != '' AND instr(lower(linkedin_url), lower(?)) > 0
		ORDER BY updated_at DESC
		LIMIT 1`,
		urlFragment)
	return scanRecord(row)
}

// UpdateFields updates the allowlisted columns on a record. Unknown field
// names are rejected.
func (d *DB) UpdateFields(ctx context.Context, id string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for col, val := range fields {
		if !updatableColumns[col] {
			return fmt.Errorf("column %q is not updatable", col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	res, err := d.db.ExecContext(ctx,
		"UPDATE contacts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update contact %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update contact %s: no such record", id)
	}
	return nil
}

// AppendAudit inserts an append-only audit row for a record.
func (d *DB) AppendAudit(ctx context.Context, recordID, stage, detail string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, record_id, stage, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), recordID, stage, detail, now())
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// AuditTrail returns the audit rows for a record, oldest first. Each entry
// is "stage: detail".
func (d *DB) AuditTrail(ctx context.Context, recordID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT stage, detail FROM audit_log
		WHERE record_id = ? ORDER BY created_at, rowid`, recordID)
	if err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var trail []string
	for rows.Next() {
		var stage, detail string
		if err := rows.Scan(&stage, &detail); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		trail = append(trail, stage+": "+detail)
	}
	return trail, rows.Err()
}

func scanRecord(row *sql.Row) (*resolve.Record, error) {
	var rec resolve.Record
	err := row.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email,
		&rec.Phone, &rec.Title, &rec.CompanyName, &rec.CompanyDomain,
		&rec.LinkedInURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is a valid result
	}
	if err != nil {
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &rec, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
