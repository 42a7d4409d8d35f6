package stats

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"gorm.io/gorm"
)

// Repo is the slice of the Postgres repository the aggregator uses. Both
// players update inside one transaction so a crash cannot credit one side
// of a match and not the other.
type Repo interface {
	GetOrCreateStats(tx *gorm.DB, userID, username string) (*model.ArenaPlayerStats, error)
	SaveStats(tx *gorm.DB, stats *model.ArenaPlayerStats) error
	Transaction(fn func(tx *gorm.DB) error) error
}

// Aggregator folds finished matches into durable per-player aggregates.
// The caller guarantees at-most-once invocation per match; the aggregator
// guarantees both players land or neither does.
type Aggregator struct {
	repo Repo
}

func NewAggregator(repo Repo) *Aggregator {
	return &Aggregator{repo: repo}
}

// Apply updates both players' aggregates for a terminal match.
func (a *Aggregator) Apply(ctx context.Context, m *model.Match) error {
	if !m.Status.Terminal() {
		return fmt.Errorf("match %s is not terminal", m.MatchID)
	}

	now := time.Now()
	err := a.repo.Transaction(func(tx *gorm.DB) error {
		for _, p := range []*model.ArenaPlayer{&m.Player1, &m.Player2} {
			stats, err := a.repo.GetOrCreateStats(tx, p.UserID, p.Username)
			if err != nil {
				return fmt.Errorf("loading stats for %s: %w", p.UserID, err)
			}
			Fold(stats, m, p, now)
			if err := a.repo.SaveStats(tx, stats); err != nil {
				return fmt.Errorf("saving stats for %s: %w", p.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("[Stats] Applied match %s for %s and %s", m.MatchID, m.Player1.UserID, m.Player2.UserID)
	return nil
}

// Fold mutates one player's aggregate with the outcome of one match. Pure
// bookkeeping; persistence is the caller's concern.
func Fold(stats *model.ArenaPlayerStats, m *model.Match, p *model.ArenaPlayer, now time.Time) {
	stats.TotalMatches++
	stats.TotalScore += p.Score
	stats.TotalBonusPoints += p.BonusPoints
	stats.QuestionsCompleted += p.QuestionsCompleted

	switch m.Winner {
	case p.UserID:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
		switch p.Difficulty {
		case model.DifficultyEasy:
			stats.EasyWins++
		case model.DifficultyMedium:
			stats.MediumWins++
		case model.DifficultyHard:
			stats.HardWins++
		}
	case "":
		// Only wins keep a streak alive.
		stats.Draws++
		stats.CurrentStreak = 0
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	stats.AverageScore = round2(float64(stats.TotalScore) / float64(stats.TotalMatches))
	stats.WinRate = round2(float64(stats.Wins) / float64(stats.TotalMatches) * 100)

	endedAt := now
	if m.EndedAt != nil {
		endedAt = *m.EndedAt
	}
	stats.LastMatchAt = &endedAt
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
