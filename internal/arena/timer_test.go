package arena

import (
	"sync"
	"testing"
	"time"
)

func TestRoundTimerExpiryTracksWallClock(t *testing.T) {
	start := time.Now()
	expired := make(chan time.Time, 1)

	// The first broadcast stalls well past a tick interval, the way a
	// slow client socket would.
	var once sync.Once
	tmr := newRoundTimer(start, 3,
		func(int) {
			once.Do(func() { time.Sleep(2500 * time.Millisecond) })
		},
		func() { expired <- time.Now() },
	)
	defer tmr.Cancel()

	select {
	case at := <-expired:
		elapsed := at.Sub(start)
		if elapsed < 3*time.Second {
			t.Fatalf("timer expired %v after start, before the deadline", elapsed)
		}
		if elapsed > 4*time.Second {
			t.Fatalf("timer expired %v after start; remaining must be recomputed from the round start, not counted per tick", elapsed)
		}
	case <-time.After(7 * time.Second):
		t.Fatal("timer never expired")
	}
}

func TestRoundTimerTicksCarryRecomputedRemaining(t *testing.T) {
	start := time.Now()
	var mu sync.Mutex
	var seen []int
	done := make(chan struct{})

	tmr := newRoundTimer(start, 3,
		func(remaining int) {
			mu.Lock()
			seen = append(seen, remaining)
			mu.Unlock()
		},
		func() { close(done) },
	)
	defer tmr.Cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer never expired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != 2 || seen[1] != 1 {
		t.Fatalf("expected remaining ticks [2 1], got %v", seen)
	}
}

func TestRoundTimerCancelStopsExpiry(t *testing.T) {
	fired := make(chan struct{}, 1)
	tmr := newRoundTimer(time.Now(), 1, nil, func() { fired <- struct{}{} })
	tmr.Cancel()
	tmr.Cancel()

	select {
	case <-fired:
		t.Fatal("cancelled timer still expired")
	case <-time.After(1500 * time.Millisecond):
	}
}
