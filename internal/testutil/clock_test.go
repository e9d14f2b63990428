package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_DefaultBase(t *testing.T) {
	clock := NewDeterministicClock(time.Time{})
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), clock.Now())
}

func TestDeterministicClock_NowAdvancesOneSecond(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewDeterministicClock(base)

	first := clock.Now()
	second := clock.Now()

	assert.Equal(t, base.Add(time.Second), first)
	assert.Equal(t, base.Add(2*time.Second), second)
	assert.True(t, second.After(first))
}

func TestDeterministicClock_Reset(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewDeterministicClock(base)

	clock.Now()
	clock.Now()
	clock.Reset()

	assert.Equal(t, base.Add(time.Second), clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(time.Time{})
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[time.Time]bool)
	)
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				now := clock.Now()
				mu.Lock()
				seen[now] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, numGoroutines*callsPerGoroutine, "every call must return a distinct time")
}
