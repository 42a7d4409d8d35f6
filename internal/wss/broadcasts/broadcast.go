package broadcasts

import (
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// SendEvent writes one typed event to a single connection.
func SendEvent(pc *arena.PlayerConn, event model.Event) error {
	if pc == nil {
		return nil
	}
	return pc.SendJSON(event)
}

// SendError reports a handler failure back to the sender.
func SendError(pc *arena.PlayerConn, msg string) error {
	return SendEvent(pc, model.Event{
		Type:    model.EvError,
		Payload: model.ErrorPayload{Message: msg},
	})
}
