package arena

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/problems"
)

// MatchFactory assembles a five-round match for a freshly paired pair of
// players, pulling problems from the catalogue service.
type MatchFactory struct {
	problems problems.Service
}

func NewMatchFactory(svc problems.Service) *MatchFactory {
	return &MatchFactory{problems: svc}
}

// CreateMatch builds a full match document in the waiting state. Problems
// are selected up front so a mid-match catalogue outage cannot strand a
// running match without a next round.
func (f *MatchFactory) CreateMatch(ctx context.Context, p1, p2 model.QueueEntry) (*model.Match, error) {
	plan := roundPlan(p1.Difficulty, p2.Difficulty)

	questions := make([]model.Question, 0, model.RoundsPerMatch)
	usedIDs := make([]string, 0, model.RoundsPerMatch)
	for i, d := range plan {
		p, err := f.pickProblem(ctx, d, usedIDs)
		if err != nil {
			return nil, fmt.Errorf("selecting problem for round %d: %w", i, err)
		}
		usedIDs = append(usedIDs, p.ProblemID)
		questions = append(questions, model.Question{
			ProblemID:        p.ProblemID,
			Title:            p.Title,
			Difficulty:       d,
			TimeLimitSeconds: model.TimeLimitSeconds(d),
		})
	}

	m := &model.Match{
		MatchID: uuid.New().String(),
		Player1: model.ArenaPlayer{
			UserID:     p1.UserID,
			Username:   p1.Username,
			Difficulty: p1.Difficulty,
		},
		Player2: model.ArenaPlayer{
			UserID:     p2.UserID,
			Username:   p2.Username,
			Difficulty: p2.Difficulty,
		},
		Status:    model.MatchWaiting,
		Questions: questions,
		CreatedAt: time.Now(),
	}
	log.Printf("[Factory] Created match %s: %s vs %s, plan %v", m.MatchID, p1.UserID, p2.UserID, plan)
	return m, nil
}

// pickProblem asks the catalogue for a fresh problem, then relaxes the
// filters step by step: first allow repeats within the match, then fall
// back to the easy pool before giving up.
func (f *MatchFactory) pickProblem(ctx context.Context, d model.Difficulty, usedIDs []string) (*problems.Problem, error) {
	p, err := f.problems.RandomProblem(ctx, d, model.ExcludedCategories, usedIDs)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, problems.ErrNoProblems) {
		return nil, err
	}

	log.Printf("[Factory] Pool exhausted at %s, allowing repeats", d)
	p, err = f.problems.RandomProblem(ctx, d, model.ExcludedCategories, nil)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, problems.ErrNoProblems) {
		return nil, err
	}

	if d != model.DifficultyEasy {
		log.Printf("[Factory] No %s problems at all, falling back to easy", d)
		return f.problems.RandomProblem(ctx, model.DifficultyEasy, model.ExcludedCategories, nil)
	}
	return nil, problems.ErrNoProblems
}

// roundPlan lays out the per-round difficulties. Equal preferences repeat
// the shared difficulty; mixed preferences alternate and settle the decider
// on medium.
func roundPlan(d1, d2 model.Difficulty) []model.Difficulty {
	if d1 == d2 {
		return []model.Difficulty{d1, d1, d1, d1, d1}
	}
	return []model.Difficulty{d1, d2, d1, d2, model.DifficultyMedium}
}
