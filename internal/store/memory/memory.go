// Package memory is an in-process record store for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/types"
)

// Store keeps records in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	records map[string]types.FeedbackRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string]types.FeedbackRecord)}
}

// Put stores record unless its ID is already taken.
func (s *Store) Put(ctx context.Context, record types.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return fmt.Errorf("put %s: %w", record.ID, store.ErrConflict)
	}
	s.records[record.ID] = record
	return nil
}

// Get returns the record stored under id.
func (s *Store) Get(_ context.Context, id string) (types.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return types.FeedbackRecord{}, store.ErrNotFound
	}
	return record, nil
}

// List returns all records ordered by created_at, then ID.
func (s *Store) List(_ context.Context) []types.FeedbackRecord {
	s.mu.RLock()
	out := make([]types.FeedbackRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}
