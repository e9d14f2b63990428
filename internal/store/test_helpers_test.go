package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a deterministic
// clock, so created_at values are one second apart in save order.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	clock := testutil.NewDeterministicClock(time.Time{})
	s, err := Open(path, append([]Option{WithNow(clock.Now)}, opts...)...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with one innings of the given runs.
func createTestRecord(teamA, teamB, result string, runs int) match.Record {
	inn := match.NewInnings(teamA)
	inn.Runs = runs
	data, _ := json.Marshal([2]*match.Innings{inn, nil})
	return match.Record{
		TeamA:     teamA,
		TeamB:     teamB,
		ScoreData: data,
		Result:    result,
	}
}
