package repo

import (
	"errors"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"gorm.io/gorm"
)

var ErrStatsNotFound = errors.New("player stats not found")

type PSQLRepository struct {
	db *gorm.DB
}

func NewPSQLRepository(db *gorm.DB) *PSQLRepository {
	return &PSQLRepository{db: db}
}

// GetStats returns the stats row for a user, or ErrStatsNotFound.
func (r *PSQLRepository) GetStats(userID string) (*model.ArenaPlayerStats, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}

	var stats model.ArenaPlayerStats
	err := r.db.First(&stats, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatsNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// GetOrCreateStats loads a user's stats row, creating a zeroed one on first
// contact. Runs inside tx so the read-modify-write in the aggregator stays
// consistent under concurrent match completions.
func (r *PSQLRepository) GetOrCreateStats(tx *gorm.DB, userID, username string) (*model.ArenaPlayerStats, error) {
	var stats model.ArenaPlayerStats
	err := tx.Where(model.ArenaPlayerStats{UserID: userID}).
		Attrs(model.ArenaPlayerStats{UserID: userID, Username: username}).
		FirstOrCreate(&stats).Error
	if err != nil {
		return nil, err
	}

	// Username can change between matches; keep the latest.
	if username != "" && stats.Username != username {
		stats.Username = username
	}
	return &stats, nil
}

// SaveStats writes back a mutated stats row inside tx.
func (r *PSQLRepository) SaveStats(tx *gorm.DB, stats *model.ArenaPlayerStats) error {
	return tx.Save(stats).Error
}

// Transaction runs fn in a single database transaction.
func (r *PSQLRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// TopByWinRate returns the leaderboard, players with the most matches first
// among equal win rates.
func (r *PSQLRepository) TopByWinRate(limit int) ([]model.ArenaPlayerStats, error) {
	if limit < 1 {
		limit = 10
	}

	var rows []model.ArenaPlayerStats
	err := r.db.
		Where("total_matches > 0").
		Order("win_rate DESC").
		Order("total_matches DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateSubmissionRecord appends one audit row per adjudicated submission.
func (r *PSQLRepository) CreateSubmissionRecord(rec *model.SubmissionRecord) error {
	return r.db.Create(rec).Error
}

// GetSubmissionRecords returns the audit trail for a match, oldest first.
func (r *PSQLRepository) GetSubmissionRecords(matchID string) ([]model.SubmissionRecord, error) {
	if matchID == "" {
		return nil, errors.New("matchID cannot be empty")
	}

	var rows []model.SubmissionRecord
	err := r.db.
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
