package events

import (
	"time"

	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// Event payload types shared by the session, the gateway and the event bus

// GameStartedPayload is the payload for a GameStarted event
type GameStartedPayload struct {
	QuizID         string              `json:"quiz_id,omitempty"`
	TeamID         string              `json:"team_id,omitempty"`
	TotalQuestions int                 `json:"total_questions"`
	Lifelines      []models.LifelineID `json:"lifelines"`
	StartedAt      time.Time           `json:"started_at"`
}

// QuestionStartedPayload is the payload for a QuestionStarted event
type QuestionStartedPayload struct {
	Index        int       `json:"index"`
	Number       int       `json:"number"`
	Text         string    `json:"text"`
	Options      []string  `json:"options"`
	Category     string    `json:"category,omitempty"`
	Points       int       `json:"points"`
	TimeLimitSec int       `json:"time_limit_sec"`
	StartedAt    time.Time `json:"started_at"`
}

// TimerTickPayload is the payload for a TimerTick event
type TimerTickPayload struct {
	Index            int       `json:"index"`
	TimeRemainingSec int       `json:"time_remaining_sec"`
	TickedAt         time.Time `json:"ticked_at"`
}

// OptionSelectedPayload is the payload for OptionSelected and AnswerLocked events
type OptionSelectedPayload struct {
	Index  int `json:"index"`
	Option int `json:"option"`
}

// AnswerRevealedPayload is the payload for an AnswerRevealed event
type AnswerRevealedPayload struct {
	Index         int    `json:"index"`
	Option        *int   `json:"option,omitempty"`
	CorrectOption int    `json:"correct_option"`
	CorrectText   string `json:"correct_text"`
	Correct       bool   `json:"correct"`
	TimedOut      bool   `json:"timed_out,omitempty"`
	PointsAwarded int    `json:"points_awarded"`
	TotalPoints   int    `json:"total_points"`
	Message       string `json:"message"`
	Explanation   string `json:"explanation,omitempty"`
}

// LifelineUsedPayload is the payload for a LifelineUsed event
type LifelineUsedPayload struct {
	Index   int              `json:"index"`
	Outcome lifeline.Outcome `json:"outcome"`
}

// ActionUndonePayload is the payload for an ActionUndone event
type ActionUndonePayload struct {
	Action models.GameAction `json:"action"`
}

// GamePausedPayload is the payload for a GamePaused event
type GamePausedPayload struct {
	PausedAt         time.Time `json:"paused_at"`
	TimeRemainingSec int       `json:"time_remaining_sec"`
}

// GameResumedPayload is the payload for a GameResumed event
type GameResumedPayload struct {
	ResumedAt time.Time `json:"resumed_at"`
}

// GameFinishedPayload is the payload for a GameFinished event
type GameFinishedPayload struct {
	Result models.GameResult `json:"result"`
}

// CuePayload is the payload for CuePlayed and CueStopped events
type CuePayload = sound.CueEvent
