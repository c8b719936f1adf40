// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// RecordStore is an in-memory implementation of ports.RecordStore.
// Err, when set, is returned by every operation.
type RecordStore struct {
	mu      sync.Mutex
	Records map[string]*entities.StringRecord
	order   []string
	Audit   []entities.AuditEntry
	Err     error
	// AuditErr is returned only by LogAction.
	AuditErr error

	// Now supplies creation timestamps; defaults to time.Now.
	Now func() time.Time

	CreateCallCount int
	FindCallCount   int
	ListCallCount   int
}

// NewRecordStore creates a new mock RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		Records: make(map[string]*entities.StringRecord),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *RecordStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *RecordStore) Close() error {
	return nil
}

// Create stores a record unless its digest is present.
func (m *RecordStore) Create(_ context.Context, value string, props entities.PropertySet) (*entities.StringRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCallCount++
	if m.Err != nil {
		return nil, false, m.Err
	}

	if existing, ok := m.Records[props.Digest]; ok {
		rec := *existing
		return &rec, false, nil
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	rec := &entities.StringRecord{
		Digest:     props.Digest,
		Value:      value,
		Properties: props,
		CreatedAt:  now().UTC(),
	}
	m.Records[rec.Digest] = rec
	m.order = append(m.order, rec.Digest)

	out := *rec
	return &out, true, nil
}

// FindByDigest returns the record at digest, or nil.
func (m *RecordStore) FindByDigest(_ context.Context, digest string) (*entities.StringRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.Records[digest]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

// DeleteByDigest removes the record at digest.
func (m *RecordStore) DeleteByDigest(_ context.Context, digest string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.Records[digest]; !ok {
		return false, nil
	}
	delete(m.Records, digest)
	for i, d := range m.order {
		if d == digest {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// List returns records newest first (reverse insertion order).
func (m *RecordStore) List(_ context.Context) ([]entities.StringRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.StringRecord, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, *m.Records[m.order[i]])
	}
	return result, nil
}

// LogAction appends to Audit.
func (m *RecordStore) LogAction(_ context.Context, action, digest string, details map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AuditErr != nil {
		return m.AuditErr
	}
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		Digest:    digest,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// FindAuditLog returns audit entries for digest, newest first.
func (m *RecordStore) FindAuditLog(_ context.Context, digest string) ([]entities.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].Digest == digest {
			result = append(result, m.Audit[i])
		}
	}
	return result, nil
}

// FindAuditLogByAction returns up to limit audit entries with action, newest first.
func (m *RecordStore) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0 && len(result) < limit; i-- {
		if m.Audit[i].Action == action {
			result = append(result, m.Audit[i])
		}
	}
	return result, nil
}
