package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// MemoryStorage implements usage.Storage with an in-memory slice.
type MemoryStorage struct {
	records []*usage.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store keeps a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *usage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	return nil
}

// Query returns matching records, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *usage.Query) ([]*usage.Record, error) {
	if query == nil {
		query = &usage.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*usage.Record{}
	for i := len(s.records) - 1; i >= 0; i-- {
		if matchesQuery(s.records[i], query) {
			recordCopy := *s.records[i]
			results = append(results, &recordCopy)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	start := query.Offset
	if start > len(results) {
		return []*usage.Record{}, nil
	}
	limit := query.Limit
	if limit <= 0 {
		limit = usage.DefaultQueryLimit
	}
	end := min(start+limit, len(results))

	return results[start:end], nil
}

// Totals aggregates matching records.
func (s *MemoryStorage) Totals(ctx context.Context, query *usage.Query) (*usage.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := &usage.Totals{}
	for _, record := range s.records {
		if !matchesQuery(record, query) {
			continue
		}
		totals.Records++
		if record.Outcome == usage.OutcomeSuccess {
			totals.Successes++
		} else {
			totals.Failures++
		}
		totals.TokensUsed += int64(record.TokensUsed)
		totals.EstimatedCost += record.EstimatedCost
		totals.ActualCost += record.ActualCost
	}
	return totals, nil
}

// Delete removes matching records.
func (s *MemoryStorage) Delete(ctx context.Context, query *usage.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	clear(s.records[len(kept):])
	s.records = kept

	return deleted, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

// matchesQuery checks whether a record matches the query filters.
func matchesQuery(record *usage.Record, query *usage.Query) bool {
	if query == nil {
		return true
	}
	if query.Since != nil && record.CreatedAt.Before(*query.Since) {
		return false
	}
	if query.Until != nil && !record.CreatedAt.Before(*query.Until) {
		return false
	}
	if query.ClientKey != "" && record.ClientKey != query.ClientKey {
		return false
	}
	if query.Tier != "" && record.Tier != query.Tier {
		return false
	}
	if query.Outcome != "" && record.Outcome != query.Outcome {
		return false
	}
	return true
}
