package host

import (
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// Request and response messages of the host service. They travel as JSON.

type StartGameRequest struct {
	QuizID string `json:"quiz_id"`
	TeamID string `json:"team_id,omitempty"`
}

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type SelectOptionRequest struct {
	SessionID string `json:"session_id"`
	Option    int    `json:"option"`
}

type UseLifelineRequest struct {
	SessionID string            `json:"session_id"`
	Lifeline  models.LifelineID `json:"lifeline"`
}

type SetMutedRequest struct {
	SessionID string `json:"session_id"`
	Muted     bool   `json:"muted"`
}

// StateResponse reports whether the command changed the session and its state
// afterwards. Commands that are not valid in the current state are ignored, not failed.
type StateResponse struct {
	Applied bool             `json:"applied"`
	State   session.Snapshot `json:"state"`
	Notice  string           `json:"notice,omitempty"`
}

type UseLifelineResponse struct {
	StateResponse
	Outcome *lifeline.Outcome `json:"outcome,omitempty"`
}

type UndoResponse struct {
	StateResponse
	Undone *models.GameAction `json:"undone,omitempty"`
}
