package wsshandler

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/broadcasts"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

// JoinQueueHandler puts a player into the matchmaking queue. When the join
// pairs two players the full match is assembled here and both sides get
// their match-found event.
func JoinQueueHandler(ctx *wsstypes.WsContext) error {
	requestID := uuid.New().String()

	var payload wsstypes.JoinQueuePayload
	if err := wsstypes.DecodePayload(ctx.Payload, &payload); err != nil {
		log.Printf("[%s] [JoinQueue] Decode error: %v", requestID, err)
		return broadcasts.SendError(ctx.PC, "Invalid payload format")
	}
	if err := payload.Validate(); err != nil {
		log.Printf("[%s] [JoinQueue] Invalid payload from %s: %v", requestID, ctx.UserID, err)
		return broadcasts.SendError(ctx.PC, err.Error())
	}

	difficulty := model.Difficulty(payload.Difficulty)
	log.Printf("[%s] [JoinQueue] User %s joining at %s", requestID, ctx.UserID, difficulty)

	res, err := ctx.State.Queue.Join(context.Background(), ctx.UserID, ctx.Username, difficulty)
	if err != nil {
		log.Printf("[%s] [JoinQueue] Join failed for %s: %v", requestID, ctx.UserID, err)
		return broadcasts.SendError(ctx.PC, err.Error())
	}

	if !res.Matched {
		return broadcasts.SendEvent(ctx.PC, model.Event{
			Type:    model.EvQueueJoined,
			Payload: model.QueueJoinedPayload{Position: res.Position, Difficulty: difficulty},
		})
	}

	m, err := ctx.State.Factory.CreateMatch(context.Background(), res.Opponent, res.Entry)
	if err != nil {
		log.Printf("[%s] [JoinQueue] Match creation failed: %v", requestID, err)
		// Neither player is queued anymore; both must retry.
		ctx.State.Manager.SendToUser(res.Opponent.UserID, model.Event{
			Type:    model.EvError,
			Payload: model.ErrorPayload{Message: "Failed to create match, please rejoin the queue"},
		})
		return broadcasts.SendError(ctx.PC, "Failed to create match, please rejoin the queue")
	}

	actor := arena.NewMatchActor(m, ctx.State.MatchDeps)
	ctx.State.Manager.AddMatch(actor)

	if ctx.State.Redis != nil {
		if err := ctx.State.Redis.SaveMatch(context.Background(), m); err != nil {
			log.Printf("[%s] [JoinQueue] Failed to mirror new match %s: %v", requestID, m.MatchID, err)
		}
	}

	log.Printf("[%s] [JoinQueue] Match %s created for %s vs %s", requestID, m.MatchID, m.Player1.UserID, m.Player2.UserID)

	ctx.State.Manager.SendToUser(m.Player1.UserID, model.Event{
		Type: model.EvMatchFound,
		Payload: model.MatchFoundPayload{
			MatchID:  m.MatchID,
			Player:   m.Player1,
			Opponent: m.Player2,
			Rounds:   model.RoundsPerMatch,
		},
	})
	ctx.State.Manager.SendToUser(m.Player2.UserID, model.Event{
		Type: model.EvMatchFound,
		Payload: model.MatchFoundPayload{
			MatchID:  m.MatchID,
			Player:   m.Player2,
			Opponent: m.Player1,
			Rounds:   model.RoundsPerMatch,
		},
	})
	return nil
}
