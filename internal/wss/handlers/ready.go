package wsshandler

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/broadcasts"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

// ReadyHandler records a player's ready signal; the actor starts the match
// once both players have signalled.
func ReadyHandler(ctx *wsstypes.WsContext) error {
	requestID := uuid.New().String()

	var payload wsstypes.ReadyPayload
	if err := wsstypes.DecodePayload(ctx.Payload, &payload); err != nil {
		log.Printf("[%s] [Ready] Decode error: %v", requestID, err)
		return broadcasts.SendError(ctx.PC, "Invalid payload format")
	}
	if err := payload.Validate(); err != nil {
		return broadcasts.SendError(ctx.PC, err.Error())
	}

	actor := ctx.State.Manager.GetActor(payload.MatchID)
	if actor == nil {
		log.Printf("[%s] [Ready] Match %s not found for %s", requestID, payload.MatchID, ctx.UserID)
		return broadcasts.SendError(ctx.PC, "Match not found")
	}

	started, err := actor.MarkReady(context.Background(), ctx.UserID)
	if err != nil {
		log.Printf("[%s] [Ready] MarkReady failed for %s: %v", requestID, ctx.UserID, err)
		return broadcasts.SendError(ctx.PC, err.Error())
	}
	if started {
		log.Printf("[%s] [Ready] Match %s started", requestID, payload.MatchID)
	}
	return nil
}
