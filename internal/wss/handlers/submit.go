package wsshandler

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/broadcasts"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

// SubmitHandler routes a code submission to the adjudicator. With isTest
// set the code runs against the sample cases only and nothing on the match
// changes; the result goes back to the submitter alone.
func SubmitHandler(ctx *wsstypes.WsContext) error {
	requestID := uuid.New().String()

	var payload wsstypes.SubmitPayload
	if err := wsstypes.DecodePayload(ctx.Payload, &payload); err != nil {
		log.Printf("[%s] [Submit] Decode error: %v", requestID, err)
		return broadcasts.SendError(ctx.PC, "Invalid payload format")
	}
	if err := payload.Validate(); err != nil {
		log.Printf("[%s] [Submit] Invalid payload from %s: %v", requestID, ctx.UserID, err)
		return broadcasts.SendError(ctx.PC, err.Error())
	}

	start := time.Now()
	execCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if payload.IsTest {
		result, err := ctx.State.Adjudicator.TestRun(execCtx, payload.MatchID, ctx.UserID, payload.Round(), payload.Code, payload.Language)
		if err != nil {
			log.Printf("[%s] [Submit] Test run failed for %s: %v", requestID, ctx.UserID, err)
			return broadcasts.SendError(ctx.PC, err.Error())
		}
		log.Printf("[%s] [Submit] Test run for %s: %d/%d (took %v)", requestID, ctx.UserID, result.PassedTests, result.TotalTests, time.Since(start))
		return broadcasts.SendEvent(ctx.PC, model.Event{Type: model.EvTestResult, Payload: *result})
	}

	result, err := ctx.State.Adjudicator.Submit(execCtx, payload.MatchID, ctx.UserID, payload.Round(), payload.Code, payload.Language)
	if err != nil {
		log.Printf("[%s] [Submit] Submission failed for %s: %v", requestID, ctx.UserID, err)
		return broadcasts.SendError(ctx.PC, err.Error())
	}
	log.Printf("[%s] [Submit] User %s scored %d on round %d (took %v)", requestID, ctx.UserID, result.Result.Points, result.QuestionIndex, time.Since(start))
	return nil
}
