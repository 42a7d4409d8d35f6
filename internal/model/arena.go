package model

import (
	"time"
)

const (
	RoundsPerMatch    = 5
	FirstSolveBonus   = 5
	SampleTestLimit   = 2
	MatchWallClockCap = 30 * time.Minute
	ReaperInterval    = 5 * time.Minute

	// Time-update cadence: coarse ticks every 10s, then every second
	// for the last 10s of a round.
	TimeUpdateCoarseSeconds = 10
	TimeUpdateDenseWindow   = 10

	WebsocketReadTimeout  = 60 * time.Second
	WebsocketWriteTimeout = 10 * time.Second
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty reports whether d is one of the three arena difficulties.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

var roundTimeLimits = map[Difficulty]int{
	DifficultyEasy:   300,
	DifficultyMedium: 480,
	DifficultyHard:   900,
}

// TimeLimitSeconds returns the per-round time limit for a difficulty.
// Unknown difficulties fall back to the easy limit.
func TimeLimitSeconds(d Difficulty) int {
	if limit, ok := roundTimeLimits[d]; ok {
		return limit
	}
	return 300
}

// ExcludedCategories are project-style tracks that never appear as arena rounds.
var ExcludedCategories = []string{"games", "web", "ai", "iot"}

type MatchStatus string

const (
	MatchWaiting    MatchStatus = "waiting"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchAbandoned  MatchStatus = "abandoned"
)

// Terminal reports whether the status permits no further mutation.
func (s MatchStatus) Terminal() bool {
	return s == MatchCompleted || s == MatchAbandoned
}

type EndReason string

const (
	EndReasonCompleted EndReason = "completed"
	EndReasonTimeout   EndReason = "timeout"
	EndReasonAbandoned EndReason = "abandoned"
)

type RoundCloseReason string

const (
	RoundBothSubmitted RoundCloseReason = "both-submitted"
	RoundTimeout       RoundCloseReason = "timeout"
)

type SubmissionStatus string

const (
	SubmissionAccepted     SubmissionStatus = "accepted"
	SubmissionPartial      SubmissionStatus = "partial"
	SubmissionRuntimeError SubmissionStatus = "runtime-error"
)

// QueueEntry is a waiting player in a difficulty bucket. At most one
// active entry exists per user.
type QueueEntry struct {
	UserID     string     `json:"userId" bson:"user_id"`
	Username   string     `json:"username" bson:"username"`
	Difficulty Difficulty `json:"difficulty" bson:"difficulty"`
	JoinedAt   time.Time  `json:"joinedAt" bson:"joined_at"`
}

// ArenaPlayer is one side of a match together with its running totals.
type ArenaPlayer struct {
	UserID             string     `json:"userId" bson:"user_id"`
	Username           string     `json:"username" bson:"username"`
	Difficulty         Difficulty `json:"difficulty" bson:"difficulty"`
	Score              int        `json:"score" bson:"score"`
	QuestionsCompleted int        `json:"questionsCompleted" bson:"questions_completed"`
	BonusPoints        int        `json:"bonusPoints" bson:"bonus_points"`
}

// Submission is one scored attempt by a player within a round. Sample-only
// test runs are never stored as submissions.
type Submission struct {
	SubmissionID    string           `json:"submissionId" bson:"submission_id"`
	Code            string           `json:"code" bson:"code"`
	Language        string           `json:"language" bson:"language"`
	SubmittedAt     time.Time        `json:"submittedAt" bson:"submitted_at"`
	TestCasesPassed int              `json:"testCasesPassed" bson:"test_cases_passed"`
	TotalTestCases  int              `json:"totalTestCases" bson:"total_test_cases"`
	ExecutionTimeMs int64            `json:"executionTimeMs" bson:"execution_time_ms"`
	Points          int              `json:"points" bson:"points"`
	Status          SubmissionStatus `json:"status" bson:"status"`
}

// Question is one round of a match.
type Question struct {
	ProblemID        string           `json:"problemId" bson:"problem_id"`
	Title            string           `json:"title" bson:"title"`
	Difficulty       Difficulty       `json:"difficulty" bson:"difficulty"`
	TimeLimitSeconds int              `json:"timeLimitSeconds" bson:"time_limit_seconds"`
	StartedAt        *time.Time       `json:"startedAt,omitempty" bson:"started_at,omitempty"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CloseReason      RoundCloseReason `json:"closeReason,omitempty" bson:"close_reason,omitempty"`

	// Winner is the first player to reach a full test-case pass for this
	// round, set at most once.
	Winner string `json:"winner,omitempty" bson:"winner,omitempty"`

	Player1Submissions []Submission `json:"player1Submissions,omitempty" bson:"player1_submissions,omitempty"`
	Player2Submissions []Submission `json:"player2Submissions,omitempty" bson:"player2_submissions,omitempty"`
}

// Match is the shared document mutated by both players' connections.
// Matches are archived on completion, never deleted.
type Match struct {
	MatchID              string      `json:"matchId" bson:"match_id"`
	Player1              ArenaPlayer `json:"player1" bson:"player1"`
	Player2              ArenaPlayer `json:"player2" bson:"player2"`
	Status               MatchStatus `json:"status" bson:"status"`
	CurrentQuestionIndex int         `json:"currentQuestionIndex" bson:"current_question_index"`
	Questions            []Question  `json:"questions" bson:"questions"`
	Winner               string      `json:"winner,omitempty" bson:"winner,omitempty"`
	CreatedAt            time.Time   `json:"createdAt" bson:"created_at"`
	StartedAt            *time.Time  `json:"startedAt,omitempty" bson:"started_at,omitempty"`
	EndedAt              *time.Time  `json:"endedAt,omitempty" bson:"ended_at,omitempty"`
	TotalDurationSeconds int64       `json:"totalDuration,omitempty" bson:"total_duration,omitempty"`
	EndReason            EndReason   `json:"endReason,omitempty" bson:"end_reason,omitempty"`
}

// IsParticipant reports whether userID plays in this match.
func (m *Match) IsParticipant(userID string) bool {
	return m.Player1.UserID == userID || m.Player2.UserID == userID
}

// PlayerByID returns the player for userID, or nil.
func (m *Match) PlayerByID(userID string) *ArenaPlayer {
	switch userID {
	case m.Player1.UserID:
		return &m.Player1
	case m.Player2.UserID:
		return &m.Player2
	}
	return nil
}

// OpponentOf returns the other player of userID, or nil.
func (m *Match) OpponentOf(userID string) *ArenaPlayer {
	switch userID {
	case m.Player1.UserID:
		return &m.Player2
	case m.Player2.UserID:
		return &m.Player1
	}
	return nil
}

// SubmissionsFor returns the submission slice of userID for a round.
func (q *Question) SubmissionsFor(m *Match, userID string) []Submission {
	if m.Player1.UserID == userID {
		return q.Player1Submissions
	}
	if m.Player2.UserID == userID {
		return q.Player2Submissions
	}
	return nil
}

// ArenaPlayerStats is the durable per-player aggregate, mutated exactly
// once per completed match.
type ArenaPlayerStats struct {
	UserID             string     `gorm:"primaryKey;size:64" json:"userId"`
	Username           string     `gorm:"size:100" json:"username"`
	TotalMatches       int        `gorm:"default:0" json:"totalMatches"`
	Wins               int        `gorm:"default:0" json:"wins"`
	Losses             int        `gorm:"default:0" json:"losses"`
	Draws              int        `gorm:"default:0" json:"draws"`
	TotalScore         int        `gorm:"default:0" json:"totalScore"`
	TotalBonusPoints   int        `gorm:"default:0" json:"totalBonusPoints"`
	AverageScore       float64    `gorm:"default:0" json:"averageScore"`
	WinRate            float64    `gorm:"default:0" json:"winRate"`
	QuestionsCompleted int        `gorm:"default:0" json:"questionsCompleted"`
	CurrentStreak      int        `gorm:"default:0" json:"currentStreak"`
	BestStreak         int        `gorm:"default:0" json:"bestStreak"`
	EasyWins           int        `gorm:"default:0" json:"easyWins"`
	MediumWins         int        `gorm:"default:0" json:"mediumWins"`
	HardWins           int        `gorm:"default:0" json:"hardWins"`
	LastMatchAt        *time.Time `json:"lastMatchAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// SubmissionRecord is the per-submission audit row kept in Postgres.
type SubmissionRecord struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	SubmissionID    string           `gorm:"uniqueIndex;size:64" json:"submissionId"`
	MatchID         string           `gorm:"index;size:64" json:"matchId"`
	UserID          string           `gorm:"index;size:64" json:"userId"`
	QuestionIndex   int              `json:"questionIndex"`
	ProblemID       string           `gorm:"size:64" json:"problemId"`
	Language        string           `gorm:"size:32" json:"language"`
	TestCasesPassed int              `json:"testCasesPassed"`
	TotalTestCases  int              `json:"totalTestCases"`
	Points          int              `json:"points"`
	BonusAwarded    bool             `json:"bonusAwarded"`
	Status          SubmissionStatus `gorm:"size:20" json:"status"`
	ExecutionTimeMs int64            `json:"executionTimeMs"`
	CreatedAt       time.Time        `json:"createdAt"`
}
