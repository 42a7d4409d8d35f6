package arena

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// MatchStore mirrors live match state into external storage.
type MatchStore interface {
	SaveMatch(ctx context.Context, m *model.Match) error
	DeleteMatch(ctx context.Context, matchID string) error
}

// Archiver persists finished matches durably.
type Archiver interface {
	ArchiveMatch(ctx context.Context, m *model.Match) error
}

// StatsApplier folds one finished match into player aggregates. It is
// called exactly once per match, after the terminal transition.
type StatsApplier interface {
	Apply(ctx context.Context, m *model.Match) error
}

// Sender delivers an event to a connected player.
type Sender interface {
	SendToUser(userID string, event model.Event)
}

// Deps are the collaborators a match actor reaches after state changes.
// Any of them may be nil; progression never depends on them succeeding.
type Deps struct {
	Store   MatchStore
	Archive Archiver
	Stats   StatsApplier
	Sender  Sender
	OnEnd   func(matchID string)
}

// MatchActor serializes every mutation of one match behind a single mutex.
// Handlers, the round timer and the reaper all funnel through it, so the
// invariants (one advance per round, one terminal transition, one stats
// application) hold by construction.
type MatchActor struct {
	mu    sync.Mutex
	match *model.Match
	ready map[string]bool
	timer *roundTimer
	deps  Deps
}

func NewMatchActor(m *model.Match, deps Deps) *MatchActor {
	return &MatchActor{
		match: m,
		ready: make(map[string]bool),
		deps:  deps,
	}
}

// MatchID returns the immutable match identifier.
func (a *MatchActor) MatchID() string {
	return a.match.MatchID
}

// Snapshot returns a deep copy of the match safe to read and serialize
// without holding the actor lock.
func (a *MatchActor) Snapshot() *model.Match {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *MatchActor) snapshotLocked() *model.Match {
	snap := *a.match
	snap.Questions = make([]model.Question, len(a.match.Questions))
	copy(snap.Questions, a.match.Questions)
	for i := range snap.Questions {
		q := &snap.Questions[i]
		q.Player1Submissions = append([]model.Submission(nil), q.Player1Submissions...)
		q.Player2Submissions = append([]model.Submission(nil), q.Player2Submissions...)
	}
	return &snap
}

// MarkReady records a player's ready signal. The match starts when both
// players have signalled; a repeated ready while already running is a no-op.
func (a *MatchActor) MarkReady(ctx context.Context, userID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.match.IsParticipant(userID) {
		return false, model.ErrNotParticipant
	}
	if a.match.Status.Terminal() {
		return false, model.ErrMatchNotActive
	}
	if a.match.Status == model.MatchInProgress {
		return false, nil
	}

	a.ready[userID] = true
	if !a.ready[a.match.Player1.UserID] || !a.ready[a.match.Player2.UserID] {
		return false, nil
	}

	now := time.Now()
	a.match.Status = model.MatchInProgress
	a.match.StartedAt = &now
	a.startRoundLocked(0)
	a.mirrorSaveLocked(ctx)
	log.Printf("[Match %s] Both players ready, match started", a.match.MatchID)
	return true, nil
}

// SubmissionContext is the read-only slice of match state the adjudicator
// needs to run a submission outside the actor lock.
type SubmissionContext struct {
	ProblemID     string
	QuestionIndex int
	TimeLimit     int
	Player1ID     string
	Player2ID     string
}

// SubmissionContext validates that a submission attempt targets the live
// round and returns what the adjudicator needs to execute it. A negative
// questionIndex means the caller did not pin a round and takes whichever
// one is live; the resolution happens under the actor lock so it cannot
// race a round advance.
func (a *MatchActor) SubmissionContext(userID string, questionIndex int) (SubmissionContext, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.match.IsParticipant(userID) {
		return SubmissionContext{}, model.ErrNotParticipant
	}
	if a.match.Status != model.MatchInProgress {
		return SubmissionContext{}, model.ErrMatchNotActive
	}
	if questionIndex < 0 {
		questionIndex = a.match.CurrentQuestionIndex
	}
	if questionIndex != a.match.CurrentQuestionIndex {
		return SubmissionContext{}, model.ErrRoundClosed
	}
	q := &a.match.Questions[questionIndex]
	if q.CompletedAt != nil {
		return SubmissionContext{}, model.ErrRoundClosed
	}

	return SubmissionContext{
		ProblemID:     q.ProblemID,
		QuestionIndex: questionIndex,
		TimeLimit:     q.TimeLimitSeconds,
		Player1ID:     a.match.Player1.UserID,
		Player2ID:     a.match.Player2.UserID,
	}, nil
}

// SubmissionOutcome reports what RecordSubmission changed.
type SubmissionOutcome struct {
	BonusAwarded  bool
	BothSubmitted bool
	PlayerScore   int
}

// RecordSubmission appends an adjudicated submission to the live round.
// Code execution happened outside the lock, so the round is re-validated
// here: a round that timed out mid-execution rejects the result. The first
// full solve of a round wins the bonus; the check and the award happen in
// the same critical section, so two racing full solves cannot both collect.
func (a *MatchActor) RecordSubmission(ctx context.Context, userID string, questionIndex int, sub model.Submission, fullSolve bool) (SubmissionOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.match.Status != model.MatchInProgress {
		return SubmissionOutcome{}, model.ErrMatchNotActive
	}
	if questionIndex != a.match.CurrentQuestionIndex {
		return SubmissionOutcome{}, model.ErrRoundClosed
	}
	q := &a.match.Questions[questionIndex]
	if q.CompletedAt != nil {
		return SubmissionOutcome{}, model.ErrRoundClosed
	}

	player := a.match.PlayerByID(userID)
	if player == nil {
		return SubmissionOutcome{}, model.ErrNotParticipant
	}

	var outcome SubmissionOutcome

	if fullSolve && !hasFullSolve(q.SubmissionsFor(a.match, userID)) {
		player.QuestionsCompleted++
	}
	if fullSolve && q.Winner == "" {
		q.Winner = userID
		player.BonusPoints += model.FirstSolveBonus
		player.Score += model.FirstSolveBonus
		outcome.BonusAwarded = true
	}

	// Resubmissions accumulate; every adjudicated attempt adds its points.
	player.Score += sub.Points

	if a.match.Player1.UserID == userID {
		q.Player1Submissions = append(q.Player1Submissions, sub)
	} else {
		q.Player2Submissions = append(q.Player2Submissions, sub)
	}

	outcome.PlayerScore = player.Score
	outcome.BothSubmitted = len(q.Player1Submissions) > 0 && len(q.Player2Submissions) > 0

	a.mirrorSaveLocked(ctx)
	return outcome, nil
}

// AdvanceOrEnd closes the given round and either starts the next one or
// ends the match after the final round. Stale calls, from a timer that lost
// the race with a both-submitted advance or the other way round, recognize
// the round already moved on and return without effect.
func (a *MatchActor) AdvanceOrEnd(ctx context.Context, questionIndex int, reason model.RoundCloseReason) {
	a.mu.Lock()
	if a.match.Status != model.MatchInProgress || questionIndex != a.match.CurrentQuestionIndex {
		a.mu.Unlock()
		return
	}
	q := &a.match.Questions[questionIndex]
	if q.CompletedAt != nil {
		a.mu.Unlock()
		return
	}

	a.cancelTimerLocked()
	now := time.Now()
	q.CompletedAt = &now
	q.CloseReason = reason
	log.Printf("[Match %s] Round %d closed (%s)", a.match.MatchID, questionIndex, reason)

	var snap *model.Match
	if questionIndex == model.RoundsPerMatch-1 {
		a.endLocked(model.EndReasonCompleted)
		snap = a.snapshotLocked()
	} else {
		a.startRoundLocked(questionIndex + 1)
		a.mirrorSaveLocked(ctx)
	}
	a.mu.Unlock()

	if snap != nil {
		a.finalize(ctx, snap)
	}
}

// End forces the match into a terminal state. Returns false when the match
// already ended; the terminal transition and therefore archival and stats
// application happen at most once no matter how many callers race here.
func (a *MatchActor) End(ctx context.Context, reason model.EndReason) bool {
	a.mu.Lock()
	if a.match.Status.Terminal() {
		a.mu.Unlock()
		return false
	}
	a.cancelTimerLocked()
	a.endLocked(reason)
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.finalize(ctx, snap)
	return true
}

// Expired reports whether the match outlived the wall-clock cap.
func (a *MatchActor) Expired(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.match.Status.Terminal() {
		return false
	}
	return now.Sub(a.match.CreatedAt) > model.MatchWallClockCap
}

func (a *MatchActor) startRoundLocked(idx int) {
	q := &a.match.Questions[idx]
	now := time.Now()
	q.StartedAt = &now
	a.match.CurrentQuestionIndex = idx

	p1 := a.match.Player1.UserID
	p2 := a.match.Player2.UserID
	a.timer = newRoundTimer(now, q.TimeLimitSeconds,
		func(remaining int) {
			a.sendBoth(p1, p2, model.Event{
				Type:    model.EvTimeUpdate,
				Payload: model.TimeUpdatePayload{QuestionIndex: idx, TimeRemaining: remaining},
			})
		},
		func() {
			a.AdvanceOrEnd(context.Background(), idx, model.RoundTimeout)
		},
	)

	a.sendBoth(p1, p2, model.Event{
		Type: model.EvQuestionStart,
		Payload: model.QuestionStartPayload{
			QuestionIndex: idx,
			Problem: model.QuestionView{
				ProblemID:        q.ProblemID,
				Title:            q.Title,
				Difficulty:       q.Difficulty,
				TimeLimitSeconds: q.TimeLimitSeconds,
			},
			TimeRemaining: q.TimeLimitSeconds,
		},
	})
	log.Printf("[Match %s] Round %d started (problem %s, %ds)", a.match.MatchID, idx, q.ProblemID, q.TimeLimitSeconds)
}

func (a *MatchActor) endLocked(reason model.EndReason) {
	now := time.Now()

	// A round still open when the match dies closes as timed out.
	if a.match.Status == model.MatchInProgress {
		q := &a.match.Questions[a.match.CurrentQuestionIndex]
		if q.CompletedAt == nil {
			q.CompletedAt = &now
			q.CloseReason = model.RoundTimeout
		}
	}

	if reason == model.EndReasonAbandoned {
		a.match.Status = model.MatchAbandoned
	} else {
		a.match.Status = model.MatchCompleted
	}
	a.match.EndReason = reason
	a.match.EndedAt = &now

	switch {
	case a.match.Player1.Score > a.match.Player2.Score:
		a.match.Winner = a.match.Player1.UserID
	case a.match.Player2.Score > a.match.Player1.Score:
		a.match.Winner = a.match.Player2.UserID
	default:
		a.match.Winner = ""
	}

	start := a.match.CreatedAt
	if a.match.StartedAt != nil {
		start = *a.match.StartedAt
	}
	a.match.TotalDurationSeconds = int64(now.Sub(start).Seconds())
	log.Printf("[Match %s] Ended (%s), winner=%q, %d-%d", a.match.MatchID, reason, a.match.Winner, a.match.Player1.Score, a.match.Player2.Score)
}

// finalize runs the post-terminal side effects on a snapshot, outside the
// actor lock. Failures here are logged and do not undo the completion.
func (a *MatchActor) finalize(ctx context.Context, snap *model.Match) {
	if a.deps.Archive != nil {
		if err := a.deps.Archive.ArchiveMatch(ctx, snap); err != nil {
			log.Printf("[Match %s] Failed to archive: %v", snap.MatchID, err)
		}
	}
	if a.deps.Store != nil {
		if err := a.deps.Store.DeleteMatch(ctx, snap.MatchID); err != nil {
			log.Printf("[Match %s] Failed to drop live mirror: %v", snap.MatchID, err)
		}
	}
	if a.deps.Stats != nil {
		if err := a.deps.Stats.Apply(ctx, snap); err != nil {
			log.Printf("[Match %s] Failed to apply stats: %v", snap.MatchID, err)
		}
	}

	a.sendBoth(snap.Player1.UserID, snap.Player2.UserID, model.Event{
		Type: model.EvMatchEnd,
		Payload: model.MatchEndPayload{
			MatchID:       snap.MatchID,
			Winner:        snap.Winner,
			Player1:       snap.Player1,
			Player2:       snap.Player2,
			TotalDuration: snap.TotalDurationSeconds,
			EndReason:     snap.EndReason,
		},
	})

	if a.deps.OnEnd != nil {
		a.deps.OnEnd(snap.MatchID)
	}
}

func (a *MatchActor) cancelTimerLocked() {
	if a.timer != nil {
		a.timer.Cancel()
		a.timer = nil
	}
}

func (a *MatchActor) mirrorSaveLocked(ctx context.Context) {
	if a.deps.Store == nil {
		return
	}
	if err := a.deps.Store.SaveMatch(ctx, a.snapshotLocked()); err != nil {
		log.Printf("[Match %s] Failed to mirror state: %v", a.match.MatchID, err)
	}
}

func (a *MatchActor) sendBoth(p1, p2 string, event model.Event) {
	if a.deps.Sender == nil {
		return
	}
	a.deps.Sender.SendToUser(p1, event)
	a.deps.Sender.SendToUser(p2, event)
}

func hasFullSolve(subs []model.Submission) bool {
	for _, s := range subs {
		if s.TotalTestCases > 0 && s.TestCasesPassed == s.TotalTestCases {
			return true
		}
	}
	return false
}
