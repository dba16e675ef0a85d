package events

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/game/sound"
)

func TestParsePayloadPicksTypeByEventType(t *testing.T) {
	sid := uuid.New()
	at := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	ev, err := New(sid, EventTypeCueStopped, at, sound.CueEvent{Action: sound.ActionStop, Name: sound.CueAmbience})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if ev.SessionID != sid || ev.ID == uuid.Nil {
		t.Fatalf("envelope ids not set: %+v", ev)
	}

	got, err := ParsePayload(ev)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := &CuePayload{Action: sound.ActionStop, Name: sound.CueAmbience}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePayloadRejectsUnknownType(t *testing.T) {
	if _, err := ParsePayload(Event{Type: "DraftStarted", Data: []byte(`{}`)}); err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
}
