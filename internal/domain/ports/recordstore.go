package ports

import (
	"context"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// RecordStore defines durable, digest-keyed storage for string records.
// "Not found" is never an error: lookups return nil and deletes return false.
// Errors are reserved for I/O or integrity failures of the backing store.
type RecordStore interface {
	// EnsureSchema creates the storage schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error

	// Create persists a new record for value unless one with the same digest
	// exists. The check and insert are atomic with respect to other creates.
	// isNew is false when the returned record was already stored.
	Create(ctx context.Context, value string, props entities.PropertySet) (rec *entities.StringRecord, isNew bool, err error)

	// FindByDigest returns the record stored at digest, or nil.
	FindByDigest(ctx context.Context, digest string) (*entities.StringRecord, error)

	// DeleteByDigest removes the record at digest and reports whether one existed.
	DeleteByDigest(ctx context.Context, digest string) (bool, error)

	// List returns every record, newest first by creation time.
	List(ctx context.Context) ([]entities.StringRecord, error)

	// LogAction appends an entry to the audit log.
	LogAction(ctx context.Context, action, digest string, details map[string]any) error

	// FindAuditLog returns audit entries for a digest, newest first.
	FindAuditLog(ctx context.Context, digest string) ([]entities.AuditEntry, error)

	// FindAuditLogByAction returns at most limit entries of one action
	// across all digests, newest first.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
