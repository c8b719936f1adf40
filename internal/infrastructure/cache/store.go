// Package cache provides an in-memory read cache in front of a RecordStore.
package cache

import (
	"context"
	"fmt"
	"maps"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/domain/ports"
)

// Store decorates a RecordStore with an LRU cache of records keyed by digest.
// Only point lookups are cached; List always reads through.
type Store struct {
	ports.RecordStore

	records *lru.Cache[string, entities.StringRecord]
	// mu orders cache fills against deletes so a lookup racing a delete
	// cannot re-insert the removed record.
	mu sync.Mutex
}

// NewStore wraps inner with a cache holding up to size records.
func NewStore(inner ports.RecordStore, size int) (*Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	records, err := lru.New[string, entities.StringRecord](size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}
	return &Store{
		RecordStore: inner,
		records:     records,
	}, nil
}

// Wrap returns inner unchanged when size is zero, otherwise a cached Store.
func Wrap(inner ports.RecordStore, size int) (ports.RecordStore, error) {
	if size == 0 {
		return inner, nil
	}
	return NewStore(inner, size)
}

// Create stores through and caches the resulting record.
func (s *Store) Create(ctx context.Context, value string, props entities.PropertySet) (*entities.StringRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, isNew, err := s.RecordStore.Create(ctx, value, props)
	if err != nil {
		return nil, false, err
	}
	s.records.Add(rec.Digest, clone(*rec))
	return rec, isNew, nil
}

// FindByDigest serves from the cache, falling back to the wrapped store.
func (s *Store) FindByDigest(ctx context.Context, digest string) (*entities.StringRecord, error) {
	// Fast path: lru.Get updates recency
	if rec, ok := s.records.Get(digest); ok {
		out := clone(rec)
		return &out, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check under lock
	if rec, ok := s.records.Get(digest); ok {
		out := clone(rec)
		return &out, nil
	}

	rec, err := s.RecordStore.FindByDigest(ctx, digest)
	if err != nil || rec == nil {
		return rec, err
	}
	s.records.Add(digest, clone(*rec))
	return rec, nil
}

// DeleteByDigest deletes through and evicts the digest.
func (s *Store) DeleteByDigest(ctx context.Context, digest string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.RecordStore.DeleteByDigest(ctx, digest)
	if err != nil {
		return false, err
	}
	s.records.Remove(digest)
	return deleted, nil
}

// Len returns the number of cached records.
func (s *Store) Len() int {
	return s.records.Len()
}

// clone copies rec so callers cannot mutate cached frequency maps.
func clone(rec entities.StringRecord) entities.StringRecord {
	rec.Properties.CharacterFrequencyMap = maps.Clone(rec.Properties.CharacterFrequencyMap)
	return rec
}
