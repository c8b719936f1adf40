package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action, digest string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var digestPtr sql.NullString
	if digest != "" {
		digestPtr = sql.NullString{String: digest, Valid: true}
	}

	query := `INSERT INTO audit_log (action, digest, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, digestPtr, detailsJSON, formatTime(timeNow()))
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific digest, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, digest string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, digest, details, created_at
		FROM audit_log
		WHERE digest = ?
		ORDER BY created_at DESC, id DESC
	`
	return r.queryAuditLog(ctx, query, digest)
}

// FindAuditLogByAction finds up to limit audit log entries by action type,
// newest first.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, digest, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, action, limit)
}

// queryAuditLog is a helper to execute audit log queries.
func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var (
			entry     entities.AuditEntry
			digest    sql.NullString
			details   sql.NullString
			createdAt string
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&digest,
			&details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.Digest = digest.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entry.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
