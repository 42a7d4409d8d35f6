package wsstypes

import (
	"encoding/json"
	"testing"
)

func TestDecodeSubmitPayloadIsTest(t *testing.T) {
	var msg WsMessage
	raw := `{"type":"submit","payload":{"matchId":"m1","code":"print(1)","language":"python","isTest":true}}`
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}

	var p SubmitPayload
	if err := DecodePayload(msg.Payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !p.IsTest {
		t.Fatal("isTest flag was dropped during decode")
	}
	if p.Round() != -1 {
		t.Fatalf("expected round -1 for an omitted questionIndex, got %d", p.Round())
	}
}

func TestDecodeSubmitPayloadPinnedRound(t *testing.T) {
	payload := map[string]any{
		"matchId":       "m1",
		"questionIndex": 2,
		"code":          "print(1)",
		"language":      "python",
	}

	var p SubmitPayload
	if err := DecodePayload(payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.IsTest {
		t.Fatal("isTest defaulted to true")
	}
	if p.Round() != 2 {
		t.Fatalf("expected round 2, got %d", p.Round())
	}
}

func TestSubmitPayloadValidateRejectsOutOfRangeRound(t *testing.T) {
	idx := 99
	p := SubmitPayload{MatchID: "m1", QuestionIndex: &idx, Code: "x", Language: "go"}
	if err := p.Validate(); err == nil {
		t.Fatal("expected out of range questionIndex to fail validation")
	}
}
