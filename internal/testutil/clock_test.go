package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_StartsAtEpoch(t *testing.T) {
	clock := NewClock()
	assert.Equal(t, Epoch, clock.Peek())
	assert.Equal(t, Epoch, clock.Now())
}

func TestClock_AdvancesByStep(t *testing.T) {
	clock := NewClock()

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, time.Second, second.Sub(first))
	assert.Equal(t, time.Second, third.Sub(second))
}

func TestClock_ZeroStepFreezes(t *testing.T) {
	at := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)
	clock := NewClockAt(at, 0)

	assert.Equal(t, at, clock.Now())
	assert.Equal(t, at, clock.Now())
}

func TestClock_Reset(t *testing.T) {
	clock := NewClock()
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestClock_ConcurrentAccess(t *testing.T) {
	clock := NewClock()

	const goroutines = 10
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range callsPerGoroutine {
				clock.Now()
			}
		}()
	}
	wg.Wait()

	want := Epoch.Add(goroutines * callsPerGoroutine * time.Second)
	assert.Equal(t, want, clock.Peek())
}
