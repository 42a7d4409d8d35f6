package arena

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/execution"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/problems"
)

// fakeRunner maps stdin to stdout through fn.
type fakeRunner struct {
	fn func(req execution.RunRequest) (*execution.RunResult, error)
}

func (r *fakeRunner) Run(_ context.Context, req execution.RunRequest) (*execution.RunResult, error) {
	return r.fn(req)
}

// echoRunner answers every case correctly by echoing the input, which the
// fixture problems use as the expected output.
func echoRunner() *fakeRunner {
	return &fakeRunner{fn: func(req execution.RunRequest) (*execution.RunResult, error) {
		return &execution.RunResult{Stdout: req.Stdin + "\n", ExitCode: 0, RuntimeMs: 5}, nil
	}}
}

type fixedCatalogue struct {
	problem *problems.Problem
}

func (f *fixedCatalogue) RandomProblem(_ context.Context, d model.Difficulty, _, _ []string) (*problems.Problem, error) {
	return f.problem, nil
}

func (f *fixedCatalogue) GetProblem(_ context.Context, _ string) (*problems.Problem, error) {
	return f.problem, nil
}

func echoProblem(cases int) *problems.Problem {
	p := &problems.Problem{ProblemID: "p0", Title: "Echo", Difficulty: model.DifficultyEasy}
	for i := 0; i < cases; i++ {
		input := string(rune('a' + i))
		p.TestCases = append(p.TestCases, problems.TestCase{
			Input:    input,
			Expected: input,
			Hidden:   i >= model.SampleTestLimit,
		})
	}
	return p
}

type memAudit struct {
	mu   sync.Mutex
	rows []*model.SubmissionRecord
}

func (a *memAudit) CreateSubmissionRecord(rec *model.SubmissionRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, rec)
	return nil
}

func adjFixture(t *testing.T, runner execution.Runner, problem *problems.Problem) (*Adjudicator, *MatchActor, *memAudit) {
	t.Helper()
	mgr := NewManager()
	actor := NewMatchActor(newTestMatch(300), Deps{})
	ctx := context.Background()
	actor.MarkReady(ctx, "u1")
	if _, err := actor.MarkReady(ctx, "u2"); err != nil {
		t.Fatalf("starting match: %v", err)
	}
	t.Cleanup(func() { actor.End(ctx, model.EndReasonAbandoned) })
	mgr.AddMatch(actor)

	audit := &memAudit{}
	adj := NewAdjudicator(mgr, runner, &fixedCatalogue{problem: problem}, audit)
	return adj, actor, audit
}

func TestSubmitFullSolve(t *testing.T) {
	adj, actor, audit := adjFixture(t, echoRunner(), echoProblem(4))

	res, err := adj.Submit(context.Background(), "m1", "u1", 0, "code", "go")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Result.Status != model.SubmissionAccepted {
		t.Errorf("expected accepted, got %s", res.Result.Status)
	}
	if res.Result.Points != 100 {
		t.Errorf("expected 100 points, got %d", res.Result.Points)
	}
	if !res.BonusAwarded {
		t.Error("first full solve did not get the bonus")
	}
	if res.Points != 100+model.FirstSolveBonus {
		t.Errorf("expected total score %d, got %d", 100+model.FirstSolveBonus, res.Points)
	}

	snap := actor.Snapshot()
	if len(snap.Questions[0].Player1Submissions) != 1 {
		t.Fatalf("expected 1 recorded submission, got %d", len(snap.Questions[0].Player1Submissions))
	}
	if len(audit.rows) != 1 || !audit.rows[0].BonusAwarded {
		t.Error("audit row missing or without bonus flag")
	}
}

func TestSubmitPartialScoreRounding(t *testing.T) {
	// Passes only the first of three cases.
	runner := &fakeRunner{fn: func(req execution.RunRequest) (*execution.RunResult, error) {
		if req.Stdin == "a" {
			return &execution.RunResult{Stdout: "a", ExitCode: 0}, nil
		}
		return &execution.RunResult{Stdout: "wrong", ExitCode: 0}, nil
	}}
	adj, _, _ := adjFixture(t, runner, echoProblem(3))

	res, err := adj.Submit(context.Background(), "m1", "u1", 0, "code", "go")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Result.Points != 33 {
		t.Errorf("expected round(1/3*100)=33, got %d", res.Result.Points)
	}
	if res.Result.Status != model.SubmissionPartial {
		t.Errorf("expected partial, got %s", res.Result.Status)
	}
	if res.BonusAwarded {
		t.Error("partial solve got the bonus")
	}
}

func TestSubmitRunnerFailureIsFailSafe(t *testing.T) {
	runner := &fakeRunner{fn: func(execution.RunRequest) (*execution.RunResult, error) {
		return nil, errors.New("execution service down")
	}}
	adj, actor, _ := adjFixture(t, runner, echoProblem(2))

	res, err := adj.Submit(context.Background(), "m1", "u1", 0, "code", "go")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Result.Points != 0 {
		t.Errorf("expected 0 points on runner failure, got %d", res.Result.Points)
	}
	if res.Result.Status != model.SubmissionRuntimeError {
		t.Errorf("expected runtime-error, got %s", res.Result.Status)
	}

	// The attempt is still recorded against the round.
	snap := actor.Snapshot()
	if len(snap.Questions[0].Player1Submissions) != 1 {
		t.Error("failed submission not recorded")
	}
}

func TestSubmitAdvancesWhenBothSubmitted(t *testing.T) {
	adj, actor, _ := adjFixture(t, echoRunner(), echoProblem(2))
	ctx := context.Background()

	adj.Submit(ctx, "m1", "u1", 0, "code", "go")
	if actor.Snapshot().CurrentQuestionIndex != 0 {
		t.Fatal("round advanced with one submission")
	}

	adj.Submit(ctx, "m1", "u2", 0, "code", "go")
	snap := actor.Snapshot()
	if snap.CurrentQuestionIndex != 1 {
		t.Fatalf("expected round 1 after both submitted, got %d", snap.CurrentQuestionIndex)
	}
	if snap.Questions[0].CloseReason != model.RoundBothSubmitted {
		t.Errorf("expected both-submitted close, got %s", snap.Questions[0].CloseReason)
	}
}

func TestSubmitUnknownMatch(t *testing.T) {
	adj, _, _ := adjFixture(t, echoRunner(), echoProblem(2))

	if _, err := adj.Submit(context.Background(), "nope", "u1", 0, "code", "go"); err != model.ErrMatchNotFound {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestSubmitWrongRoundIndex(t *testing.T) {
	adj, _, _ := adjFixture(t, echoRunner(), echoProblem(2))

	if _, err := adj.Submit(context.Background(), "m1", "u1", 3, "code", "go"); err != model.ErrRoundClosed {
		t.Fatalf("expected ErrRoundClosed, got %v", err)
	}
}

func TestSubmitDefaultsToCurrentRound(t *testing.T) {
	adj, actor, audit := adjFixture(t, echoRunner(), echoProblem(2))
	ctx := context.Background()

	// Move the match onto round 1.
	adj.Submit(ctx, "m1", "u1", 0, "code", "go")
	adj.Submit(ctx, "m1", "u2", 0, "code", "go")
	if actor.Snapshot().CurrentQuestionIndex != 1 {
		t.Fatal("fixture did not reach round 1")
	}

	// A negative index means "whatever round is live now".
	res, err := adj.Submit(ctx, "m1", "u1", -1, "code", "go")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.QuestionIndex != 1 {
		t.Fatalf("expected submission resolved to round 1, got %d", res.QuestionIndex)
	}

	snap := actor.Snapshot()
	if len(snap.Questions[1].Player1Submissions) != 1 {
		t.Fatal("submission not recorded against the live round")
	}
	last := audit.rows[len(audit.rows)-1]
	if last.QuestionIndex != 1 {
		t.Errorf("audit row carries round %d, want 1", last.QuestionIndex)
	}
}

func TestConcurrentFullSolvesSingleBonus(t *testing.T) {
	adj, actor, _ := adjFixture(t, echoRunner(), echoProblem(2))
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*model.SubmissionResultPayload, 2)
	for i, user := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			res, err := adj.Submit(ctx, "m1", user, 0, "code", "go")
			if err != nil {
				t.Errorf("Submit %s failed: %v", user, err)
				return
			}
			results[i] = res
		}(i, user)
	}
	wg.Wait()

	bonuses := 0
	for _, r := range results {
		if r != nil && r.BonusAwarded {
			bonuses++
		}
	}
	if bonuses != 1 {
		t.Errorf("expected exactly one bonus, got %d", bonuses)
	}

	snap := actor.Snapshot()
	total := snap.Player1.Score + snap.Player2.Score
	if total != 200+model.FirstSolveBonus {
		t.Errorf("expected combined score %d, got %d", 200+model.FirstSolveBonus, total)
	}
}

func TestTestRunUsesSamplesAndDoesNotMutate(t *testing.T) {
	adj, actor, audit := adjFixture(t, echoRunner(), echoProblem(4))

	res, err := adj.TestRun(context.Background(), "m1", "u1", 0, "code", "go")
	if err != nil {
		t.Fatalf("TestRun failed: %v", err)
	}

	if res.TotalTests != model.SampleTestLimit {
		t.Errorf("expected %d sample cases, got %d", model.SampleTestLimit, res.TotalTests)
	}
	if !res.Success {
		t.Error("echo runner should pass all samples")
	}

	snap := actor.Snapshot()
	if len(snap.Questions[0].Player1Submissions) != 0 {
		t.Error("test run recorded a submission")
	}
	if snap.Player1.Score != 0 {
		t.Error("test run changed the score")
	}
	if len(audit.rows) != 0 {
		t.Error("test run wrote an audit row")
	}
}
