package model

// Wire event names, client -> server.
const (
	EvJoinQueue  = "join-queue"
	EvLeaveQueue = "leave-queue"
	EvReady      = "ready"
	EvSubmit     = "submit"
	EvGetMatch   = "get-match"
	EvPing       = "ping"
)

// Wire event names, server -> client.
const (
	EvQueueJoined      = "queue-joined"
	EvQueueLeft        = "queue-left"
	EvMatchFound       = "match-found"
	EvQuestionStart    = "question-start"
	EvTimeUpdate       = "time-update"
	EvTestResult       = "test-result"
	EvSubmissionResult = "submission-result"
	EvMatchUpdate      = "match-update"
	EvMatchEnd         = "match-end"
	EvError            = "error"
	EvPong             = "pong"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type QueueJoinedPayload struct {
	Position   int        `json:"position"`
	Difficulty Difficulty `json:"difficulty"`
}

type MatchFoundPayload struct {
	MatchID  string      `json:"matchId"`
	Player   ArenaPlayer `json:"player"`
	Opponent ArenaPlayer `json:"opponent"`
	Rounds   int         `json:"rounds"`
}

// QuestionView is the round description sent to clients. It carries no
// test-case data; samples are fetched through the test-run path.
type QuestionView struct {
	ProblemID        string     `json:"problemId"`
	Title            string     `json:"title"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
}

type QuestionStartPayload struct {
	QuestionIndex int          `json:"questionIndex"`
	Problem       QuestionView `json:"problem"`
	TimeRemaining int          `json:"timeRemaining"`
}

type TimeUpdatePayload struct {
	QuestionIndex int `json:"questionIndex"`
	TimeRemaining int `json:"timeRemaining"`
}

type TestCaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Output   string `json:"output"`
	Stderr   string `json:"stderr,omitempty"`
}

type TestResultPayload struct {
	Success     bool             `json:"success"`
	Results     []TestCaseResult `json:"results"`
	TotalTests  int              `json:"totalTests"`
	PassedTests int              `json:"passedTests"`
}

type SubmissionResultPayload struct {
	UserID        string     `json:"userId"`
	QuestionIndex int        `json:"questionIndex"`
	Result        Submission `json:"result"`
	BonusAwarded  bool       `json:"bonusAwarded"`
	Points        int        `json:"points"`
}

type MatchUpdatePayload struct {
	Match *Match `json:"match"`
}

type MatchEndPayload struct {
	MatchID       string      `json:"matchId"`
	Winner        string      `json:"winner,omitempty"`
	Player1       ArenaPlayer `json:"player1"`
	Player2       ArenaPlayer `json:"player2"`
	TotalDuration int64       `json:"totalDuration"`
	EndReason     EndReason   `json:"endReason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
