package metrics

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/events"
)

// Observer turns session events into metrics. One Observer may watch many sessions.
type Observer struct {
	metrics Collector

	mu       sync.Mutex
	asked    map[uuid.UUID]time.Time
	answered map[uuid.UUID]time.Duration
}

func NewObserver(metrics Collector) *Observer {
	return &Observer{
		metrics:  metrics,
		asked:    make(map[uuid.UUID]time.Time),
		answered: make(map[uuid.UUID]time.Duration),
	}
}

func (o *Observer) OnEvent(e events.Event) {
	switch e.Type {
	case events.EventTypeGameStarted,
		events.EventTypeQuestionStarted,
		events.EventTypeAnswerLocked,
		events.EventTypeAnswerRevealed,
		events.EventTypeLifelineUsed,
		events.EventTypeGameFinished:
	default:
		return
	}

	payload, err := events.ParsePayload(e)
	if err != nil {
		log.Warn().Err(err).Str("event_type", string(e.Type)).Msg("metrics: failed to decode event")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch p := payload.(type) {
	case *events.GameStartedPayload:
		o.metrics.RecordSessionStarted(p.QuizID)
	case *events.QuestionStartedPayload:
		o.asked[e.SessionID] = p.StartedAt
		delete(o.answered, e.SessionID)
	case *events.OptionSelectedPayload:
		// only AnswerLocked reaches here
		if started, ok := o.asked[e.SessionID]; ok {
			o.answered[e.SessionID] = e.Timestamp.Sub(started)
		}
	case *events.AnswerRevealedPayload:
		o.metrics.RecordAnswer(p.Correct, p.TimedOut, o.answered[e.SessionID])
		delete(o.answered, e.SessionID)
	case *events.LifelineUsedPayload:
		o.metrics.RecordLifelineUsed(p.Outcome.Lifeline)
	case *events.GameFinishedPayload:
		o.metrics.RecordSessionFinished(p.Result.Outcome, p.Result.QuestionLevel)
		delete(o.asked, e.SessionID)
		delete(o.answered, e.SessionID)
	}
}
