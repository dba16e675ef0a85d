package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionType defines the kind of a recorded player action.
type ActionType string

const (
	ActionAnswer   ActionType = "ANSWER"
	ActionLifeline ActionType = "LIFELINE"
	ActionWalkAway ActionType = "WALK_AWAY"
)

// ActionData carries the details of a GameAction. Fields are set per action type.
type ActionData struct {
	QuestionIndex  int        `json:"question_index"`
	SelectedOption *int       `json:"selected_option,omitempty"`
	Correct        *bool      `json:"correct,omitempty"`
	Timeout        bool       `json:"timeout,omitempty"`
	Lifeline       LifelineID `json:"lifeline,omitempty"`
	Points         int        `json:"points,omitempty"`
}

// GameAction is one entry of the session's undo log.
type GameAction struct {
	ID   uuid.UUID  `json:"id"`
	Type ActionType `json:"type"`
	Data ActionData `json:"data"`
	At   time.Time  `json:"at"`
}

// Outcome defines how a session ended.
type Outcome string

const (
	OutcomeWon        Outcome = "WON"
	OutcomeLost       Outcome = "LOST"
	OutcomeWalkedAway Outcome = "WALKED_AWAY"
)

// GameResult is emitted once when a session ends.
type GameResult struct {
	SessionID     uuid.UUID    `json:"session_id"`
	QuizID        string       `json:"quiz_id,omitempty"`
	TeamID        string       `json:"team_id,omitempty"`
	TotalWon      int          `json:"total_won"`
	QuestionLevel int          `json:"question_level"` // 1-based
	IsWinner      bool         `json:"is_winner"`
	Outcome       Outcome      `json:"outcome"`
	Actions       []GameAction `json:"actions,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
}
