package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for everything a session reports to the outside.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Type      EventType       `json:"type"`
	Seq       uint64          `json:"seq"` // per-session order
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of session event
type EventType string

const (
	EventTypeGameStarted     EventType = "GameStarted"
	EventTypeQuestionStarted EventType = "QuestionStarted"
	EventTypeTimerTick       EventType = "TimerTick"
	EventTypeOptionSelected  EventType = "OptionSelected"
	EventTypeAnswerLocked    EventType = "AnswerLocked"
	EventTypeAnswerRevealed  EventType = "AnswerRevealed"
	EventTypeLifelineUsed    EventType = "LifelineUsed"
	EventTypeActionUndone    EventType = "ActionUndone"
	EventTypeGamePaused      EventType = "GamePaused"
	EventTypeGameResumed     EventType = "GameResumed"
	EventTypeGameFinished    EventType = "GameFinished"
	EventTypeCuePlayed       EventType = "CuePlayed"
	EventTypeCueStopped      EventType = "CueStopped"
)

// New wraps a payload in an envelope.
func New(sessionID uuid.UUID, typ EventType, at time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      typ,
		Timestamp: at,
		Data:      data,
	}, nil
}

// ParsePayload decodes the event data into the payload struct for its type.
func ParsePayload(e Event) (any, error) {
	var payload any
	switch e.Type {
	case EventTypeGameStarted:
		payload = &GameStartedPayload{}
	case EventTypeQuestionStarted:
		payload = &QuestionStartedPayload{}
	case EventTypeTimerTick:
		payload = &TimerTickPayload{}
	case EventTypeOptionSelected, EventTypeAnswerLocked:
		payload = &OptionSelectedPayload{}
	case EventTypeAnswerRevealed:
		payload = &AnswerRevealedPayload{}
	case EventTypeLifelineUsed:
		payload = &LifelineUsedPayload{}
	case EventTypeActionUndone:
		payload = &ActionUndonePayload{}
	case EventTypeGamePaused:
		payload = &GamePausedPayload{}
	case EventTypeGameResumed:
		payload = &GameResumedPayload{}
	case EventTypeGameFinished:
		payload = &GameFinishedPayload{}
	case EventTypeCuePlayed, EventTypeCueStopped:
		payload = &CuePayload{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", e.Type)
	}
	if err := json.Unmarshal(e.Data, payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return payload, nil
}
