package reaper

import (
	"context"
	"testing"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

func liveMatch(id string, createdAt time.Time) *model.Match {
	questions := make([]model.Question, model.RoundsPerMatch)
	for i := range questions {
		questions[i] = model.Question{ProblemID: "p", TimeLimitSeconds: 300}
	}
	started := createdAt
	return &model.Match{
		MatchID:   id,
		Player1:   model.ArenaPlayer{UserID: id + "-p1"},
		Player2:   model.ArenaPlayer{UserID: id + "-p2"},
		Status:    model.MatchInProgress,
		Questions: questions,
		CreatedAt: createdAt,
		StartedAt: &started,
	}
}

type fakeMirror struct {
	ids     []string
	deleted []string
}

func (f *fakeMirror) ActiveMatchIDs(_ context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeMirror) DeleteMatch(_ context.Context, matchID string) error {
	f.deleted = append(f.deleted, matchID)
	return nil
}

func TestSweepEndsExpiredMatches(t *testing.T) {
	mgr := arena.NewManager()
	now := time.Now()

	stale := arena.NewMatchActor(liveMatch("old", now.Add(-model.MatchWallClockCap-time.Minute)), arena.Deps{
		OnEnd: mgr.RemoveMatch,
	})
	fresh := arena.NewMatchActor(liveMatch("new", now), arena.Deps{
		OnEnd: mgr.RemoveMatch,
	})
	mgr.AddMatch(stale)
	mgr.AddMatch(fresh)

	r := New(mgr, nil, time.Minute)
	reaped := r.Sweep(context.Background(), now)

	if reaped != 1 {
		t.Fatalf("expected 1 reaped match, got %d", reaped)
	}
	if stale.Snapshot().Status != model.MatchCompleted {
		t.Errorf("expected stale match completed, got %s", stale.Snapshot().Status)
	}
	if stale.Snapshot().EndReason != model.EndReasonTimeout {
		t.Errorf("expected timeout end reason, got %s", stale.Snapshot().EndReason)
	}
	if fresh.Snapshot().Status != model.MatchInProgress {
		t.Errorf("fresh match touched: %s", fresh.Snapshot().Status)
	}
	if mgr.GetActor("old") != nil {
		t.Error("reaped match still registered")
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	mgr := arena.NewManager()
	now := time.Now()

	stale := arena.NewMatchActor(liveMatch("old", now.Add(-model.MatchWallClockCap-time.Minute)), arena.Deps{
		OnEnd: mgr.RemoveMatch,
	})
	mgr.AddMatch(stale)

	r := New(mgr, nil, time.Minute)
	if got := r.Sweep(context.Background(), now); got != 1 {
		t.Fatalf("first sweep reaped %d, want 1", got)
	}
	if got := r.Sweep(context.Background(), now); got != 0 {
		t.Fatalf("second sweep reaped %d, want 0", got)
	}
}

func TestSweepPrunesOrphanMirrors(t *testing.T) {
	mgr := arena.NewManager()
	now := time.Now()

	live := arena.NewMatchActor(liveMatch("live", now), arena.Deps{OnEnd: mgr.RemoveMatch})
	mgr.AddMatch(live)

	mirror := &fakeMirror{ids: []string{"live", "ghost"}}
	r := New(mgr, mirror, time.Minute)
	r.Sweep(context.Background(), now)

	if len(mirror.deleted) != 1 || mirror.deleted[0] != "ghost" {
		t.Errorf("expected only ghost pruned, got %v", mirror.deleted)
	}
}
