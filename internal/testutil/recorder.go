package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/cricscore/internal/match"
)

// MemoryRecorder keeps saved match records in memory.
//
// Set Err to make SaveMatch fail. IDs are "match-<n>" in save order.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []match.Record
	Err     error
}

// NewMemoryRecorder creates an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// SaveMatch implements engine.Recorder.
func (r *MemoryRecorder) SaveMatch(ctx context.Context, rec match.Record) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	rec.ID = fmt.Sprintf("match-%d", len(r.records)+1)
	r.records = append(r.records, rec)
	return rec.ID, nil
}

// Records returns a copy of the saved records in save order.
func (r *MemoryRecorder) Records() []match.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]match.Record(nil), r.records...)
}
