package arena

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/execution"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/problems"
)

// AuditStore persists one row per adjudicated submission.
type AuditStore interface {
	CreateSubmissionRecord(rec *model.SubmissionRecord) error
}

// Adjudicator runs submitted code against the full test suite and settles
// the result on the match. Execution happens outside the actor lock; the
// actor re-validates the round when the verdict lands.
type Adjudicator struct {
	manager  *Manager
	runner   execution.Runner
	problems problems.Service
	audit    AuditStore
}

func NewAdjudicator(mgr *Manager, runner execution.Runner, svc problems.Service, audit AuditStore) *Adjudicator {
	return &Adjudicator{
		manager:  mgr,
		runner:   runner,
		problems: svc,
		audit:    audit,
	}
}

type caseOutcome struct {
	passed     int
	total      int
	runtimeMs  int64
	runtimeErr bool
}

// Submit adjudicates one submission for the live round. The returned
// payload mirrors what both players receive over the socket.
func (adj *Adjudicator) Submit(ctx context.Context, matchID, userID string, questionIndex int, code, language string) (*model.SubmissionResultPayload, error) {
	actor := adj.manager.GetActor(matchID)
	if actor == nil {
		return nil, model.ErrMatchNotFound
	}

	sc, err := actor.SubmissionContext(userID, questionIndex)
	if err != nil {
		return nil, err
	}

	problem, err := adj.problems.GetProblem(ctx, sc.ProblemID)
	if err != nil {
		return nil, err
	}

	outcome := adj.runCases(ctx, code, language, sc.TimeLimit, problem.TestCases)

	points := 0
	if outcome.total > 0 {
		points = int(math.Round(float64(outcome.passed) / float64(outcome.total) * 100))
	}

	status := model.SubmissionPartial
	switch {
	case outcome.total > 0 && outcome.passed == outcome.total:
		status = model.SubmissionAccepted
	case outcome.runtimeErr:
		status = model.SubmissionRuntimeError
	}

	sub := model.Submission{
		SubmissionID:    uuid.New().String(),
		Code:            code,
		Language:        language,
		SubmittedAt:     time.Now(),
		TestCasesPassed: outcome.passed,
		TotalTestCases:  outcome.total,
		ExecutionTimeMs: outcome.runtimeMs,
		Points:          points,
		Status:          status,
	}
	fullSolve := outcome.total > 0 && outcome.passed == outcome.total

	recorded, err := actor.RecordSubmission(ctx, userID, sc.QuestionIndex, sub, fullSolve)
	if err != nil {
		return nil, err
	}

	if adj.audit != nil {
		rec := &model.SubmissionRecord{
			SubmissionID:    sub.SubmissionID,
			MatchID:         matchID,
			UserID:          userID,
			QuestionIndex:   sc.QuestionIndex,
			ProblemID:       sc.ProblemID,
			Language:        language,
			TestCasesPassed: sub.TestCasesPassed,
			TotalTestCases:  sub.TotalTestCases,
			Points:          sub.Points,
			BonusAwarded:    recorded.BonusAwarded,
			Status:          sub.Status,
			ExecutionTimeMs: sub.ExecutionTimeMs,
		}
		if err := adj.audit.CreateSubmissionRecord(rec); err != nil {
			log.Printf("[Adjudicator] Failed to write audit row for %s: %v", sub.SubmissionID, err)
		}
	}

	payload := &model.SubmissionResultPayload{
		UserID:        userID,
		QuestionIndex: sc.QuestionIndex,
		Result:        sub,
		BonusAwarded:  recorded.BonusAwarded,
		Points:        recorded.PlayerScore,
	}

	adj.broadcast(sc, model.Event{Type: model.EvSubmissionResult, Payload: *payload})
	adj.broadcast(sc, model.Event{Type: model.EvMatchUpdate, Payload: model.MatchUpdatePayload{Match: actor.Snapshot()}})

	if recorded.BothSubmitted {
		actor.AdvanceOrEnd(ctx, sc.QuestionIndex, model.RoundBothSubmitted)
	}
	return payload, nil
}

// TestRun executes a submission against the visible sample cases only. It
// never touches match state, so players can experiment freely mid-round.
func (adj *Adjudicator) TestRun(ctx context.Context, matchID, userID string, questionIndex int, code, language string) (*model.TestResultPayload, error) {
	actor := adj.manager.GetActor(matchID)
	if actor == nil {
		return nil, model.ErrMatchNotFound
	}

	sc, err := actor.SubmissionContext(userID, questionIndex)
	if err != nil {
		return nil, err
	}

	problem, err := adj.problems.GetProblem(ctx, sc.ProblemID)
	if err != nil {
		return nil, err
	}

	samples := sampleCases(problem.TestCases)
	payload := &model.TestResultPayload{TotalTests: len(samples)}
	for i, tc := range samples {
		result := model.TestCaseResult{Index: i, Input: tc.Input, Expected: tc.Expected}

		res, err := adj.runner.Run(ctx, execution.RunRequest{
			Code:             code,
			Language:         language,
			Stdin:            tc.Input,
			TimeLimitSeconds: sc.TimeLimit,
		})
		if err != nil {
			log.Printf("[Adjudicator] Test run failed for %s: %v", userID, err)
			result.Stderr = "execution failed"
		} else {
			result.Output = strings.TrimSpace(res.Stdout)
			result.Stderr = res.Stderr
			result.Passed = res.ExitCode == 0 && outputMatches(res.Stdout, tc.Expected)
		}
		if result.Passed {
			payload.PassedTests++
		}
		payload.Results = append(payload.Results, result)
	}
	payload.Success = payload.TotalTests > 0 && payload.PassedTests == payload.TotalTests
	return payload, nil
}

// runCases executes every test case. A runner failure counts the case as
// failed rather than aborting the submission; the player still gets a
// verdict from the cases that did run.
func (adj *Adjudicator) runCases(ctx context.Context, code, language string, timeLimit int, cases []problems.TestCase) caseOutcome {
	out := caseOutcome{total: len(cases)}
	for _, tc := range cases {
		res, err := adj.runner.Run(ctx, execution.RunRequest{
			Code:             code,
			Language:         language,
			Stdin:            tc.Input,
			TimeLimitSeconds: timeLimit,
		})
		if err != nil {
			log.Printf("[Adjudicator] Runner error, counting case as failed: %v", err)
			out.runtimeErr = true
			continue
		}
		out.runtimeMs += res.RuntimeMs
		if res.ExitCode != 0 {
			out.runtimeErr = true
			continue
		}
		if outputMatches(res.Stdout, tc.Expected) {
			out.passed++
		}
	}
	return out
}

func (adj *Adjudicator) broadcast(sc SubmissionContext, event model.Event) {
	adj.manager.SendToUser(sc.Player1ID, event)
	adj.manager.SendToUser(sc.Player2ID, event)
}

// outputMatches compares trimmed stdout to the expected answer.
func outputMatches(stdout, expected string) bool {
	return strings.TrimSpace(stdout) == strings.TrimSpace(expected)
}

// sampleCases picks the visible cases a test run may use, capped at the
// sample limit.
func sampleCases(cases []problems.TestCase) []problems.TestCase {
	var visible []problems.TestCase
	for _, tc := range cases {
		if !tc.Hidden {
			visible = append(visible, tc)
		}
		if len(visible) == model.SampleTestLimit {
			break
		}
	}
	return visible
}
