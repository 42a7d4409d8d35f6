package wsshandler

import (
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/broadcasts"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

// PingHandler keeps idle sockets alive through the read deadline.
func PingHandler(ctx *wsstypes.WsContext) error {
	return broadcasts.SendEvent(ctx.PC, model.Event{Type: model.EvPong})
}
