package reaper

import (
	"context"
	"log"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// MirrorStore is the slice of the Redis repository the reaper scans for
// orphaned live-state mirrors.
type MirrorStore interface {
	ActiveMatchIDs(ctx context.Context) ([]string, error)
	DeleteMatch(ctx context.Context, matchID string) error
}

// Reaper periodically force-ends matches that outlived the wall clock cap
// and clears mirror entries whose actor no longer exists, which happens
// when a previous process died between mirroring and finishing a match.
type Reaper struct {
	manager  *arena.Manager
	store    MirrorStore
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func New(manager *arena.Manager, store MirrorStore, interval time.Duration) *Reaper {
	return &Reaper{
		manager:  manager,
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called.
func (r *Reaper) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.Sweep(context.Background(), time.Now())
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
}

// Sweep force-ends expired matches and prunes orphaned mirrors. Returns
// the number of matches ended.
func (r *Reaper) Sweep(ctx context.Context, now time.Time) int {
	reaped := 0
	for _, actor := range r.manager.Actors() {
		if !actor.Expired(now) {
			continue
		}
		if actor.End(ctx, model.EndReasonTimeout) {
			log.Printf("[Reaper] Force-ended match %s past wall clock cap", actor.MatchID())
			reaped++
		}
	}

	if r.store != nil {
		r.pruneOrphans(ctx)
	}
	return reaped
}

func (r *Reaper) pruneOrphans(ctx context.Context) {
	ids, err := r.store.ActiveMatchIDs(ctx)
	if err != nil {
		log.Printf("[Reaper] Orphan scan failed: %v", err)
		return
	}
	for _, id := range ids {
		if r.manager.GetActor(id) != nil {
			continue
		}
		if err := r.store.DeleteMatch(ctx, id); err != nil {
			log.Printf("[Reaper] Failed to prune orphan mirror %s: %v", id, err)
			continue
		}
		log.Printf("[Reaper] Pruned orphan mirror %s", id)
	}
}
