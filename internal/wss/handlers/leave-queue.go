package wsshandler

import (
	"context"
	"log"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/broadcasts"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

// LeaveQueueHandler removes a waiting player. Leaving when not queued is a
// silent success.
func LeaveQueueHandler(ctx *wsstypes.WsContext) error {
	if ctx.State.Queue.Leave(context.Background(), ctx.UserID) {
		log.Printf("[LeaveQueue] User %s left the queue", ctx.UserID)
	}
	return broadcasts.SendEvent(ctx.PC, model.Event{Type: model.EvQueueLeft})
}
