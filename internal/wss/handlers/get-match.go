package wsshandler

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/broadcasts"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

// GetMatchHandler returns the current match document, serving reconnecting
// clients that lost their local state. Live matches come from the actor;
// finished ones from the archive.
func GetMatchHandler(ctx *wsstypes.WsContext) error {
	requestID := uuid.New().String()

	var payload wsstypes.GetMatchPayload
	if err := wsstypes.DecodePayload(ctx.Payload, &payload); err != nil {
		log.Printf("[%s] [GetMatch] Decode error: %v", requestID, err)
		return broadcasts.SendError(ctx.PC, "Invalid payload format")
	}
	if err := payload.Validate(); err != nil {
		return broadcasts.SendError(ctx.PC, err.Error())
	}

	if actor := ctx.State.Manager.GetActor(payload.MatchID); actor != nil {
		return broadcasts.SendEvent(ctx.PC, model.Event{
			Type:    model.EvMatchUpdate,
			Payload: model.MatchUpdatePayload{Match: actor.Snapshot()},
		})
	}

	if ctx.State.Mongo == nil {
		return broadcasts.SendError(ctx.PC, "Match not found")
	}
	m, err := ctx.State.Mongo.GetMatch(context.Background(), payload.MatchID)
	if err != nil {
		if !errors.Is(err, model.ErrMatchNotFound) {
			log.Printf("[%s] [GetMatch] Archive lookup failed for %s: %v", requestID, payload.MatchID, err)
		}
		return broadcasts.SendError(ctx.PC, "Match not found")
	}
	return broadcasts.SendEvent(ctx.PC, model.Event{
		Type:    model.EvMatchUpdate,
		Payload: model.MatchUpdatePayload{Match: m},
	})
}
