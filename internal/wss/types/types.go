package wsstypes

import (
	"encoding/json"
	"errors"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/global"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// WsContext carries one decoded client message through the dispatcher to
// its handler, along with the authenticated identity of the connection.
type WsContext struct {
	PC       *arena.PlayerConn
	Payload  map[string]any
	UserID   string
	Username string
	State    *global.State
}

type WsMessage struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// DecodePayload binds the raw payload map onto a typed payload struct.
// Every handler starts with this before validating.
func DecodePayload(payload map[string]any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Boundary payloads. Each validates itself before the handler acts, so
// malformed input dies at the edge with a client error instead of deep in
// the match path.

type JoinQueuePayload struct {
	Difficulty string `json:"difficulty"`
}

func (p *JoinQueuePayload) Validate() error {
	if !model.ValidDifficulty(model.Difficulty(p.Difficulty)) {
		return model.ErrInvalidDifficulty
	}
	return nil
}

type ReadyPayload struct {
	MatchID string `json:"matchId"`
}

func (p *ReadyPayload) Validate() error {
	if p.MatchID == "" {
		return errors.New("matchId is required")
	}
	return nil
}

type SubmitPayload struct {
	MatchID string `json:"matchId"`
	// QuestionIndex is optional. Clients that omit it submit against
	// whichever round is live when the match actor picks it up.
	QuestionIndex *int   `json:"questionIndex"`
	Code          string `json:"code"`
	Language      string `json:"language"`
	IsTest        bool   `json:"isTest"`
}

// Round returns the pinned round index, or -1 when the client left the
// choice to the server.
func (p *SubmitPayload) Round() int {
	if p.QuestionIndex == nil {
		return -1
	}
	return *p.QuestionIndex
}

func (p *SubmitPayload) Validate() error {
	if p.MatchID == "" {
		return errors.New("matchId is required")
	}
	if p.QuestionIndex != nil && (*p.QuestionIndex < 0 || *p.QuestionIndex >= model.RoundsPerMatch) {
		return errors.New("questionIndex out of range")
	}
	if p.Code == "" {
		return errors.New("code is required")
	}
	if p.Language == "" {
		return errors.New("language is required")
	}
	return nil
}

type GetMatchPayload struct {
	MatchID string `json:"matchId"`
}

func (p *GetMatchPayload) Validate() error {
	if p.MatchID == "" {
		return errors.New("matchId is required")
	}
	return nil
}
