package models

import (
	"fmt"
	"time"
)

// LifelineID identifies one of the one-time aids a player may use.
type LifelineID string

const (
	LifelineFiftyFifty   LifelineID = "fifty_fifty"
	LifelineAudiencePoll LifelineID = "audience_poll"
	LifelineAskExpert    LifelineID = "ask_expert"
	LifelineRollDice     LifelineID = "roll_dice"
)

// AllLifelines lists every lifeline in display order.
var AllLifelines = []LifelineID{
	LifelineFiftyFifty,
	LifelineAudiencePoll,
	LifelineAskExpert,
	LifelineRollDice,
}

// Valid reports whether id is a known lifeline.
func (id LifelineID) Valid() bool {
	for _, known := range AllLifelines {
		if id == known {
			return true
		}
	}
	return false
}

// QuestionConfig overrides points and time for one ladder position.
type QuestionConfig struct {
	QuestionNumber int `json:"question_number" yaml:"question_number"`
	Points         int `json:"points" yaml:"points"`
	TimeLimit      int `json:"time_limit" yaml:"time_limit"` // seconds
}

// QuizConfig is the organizer's setup for one quiz.
type QuizConfig struct {
	ID                string           `json:"id" yaml:"id"`
	Title             string           `json:"title" yaml:"title"`
	NumberOfQuestions int              `json:"number_of_questions" yaml:"number_of_questions"`
	QuestionConfig    []QuestionConfig `json:"question_config" yaml:"question_config"`
	SelectedLifelines []LifelineID     `json:"selected_lifelines" yaml:"selected_lifelines"`
}

// Validate checks the quiz configuration.
func (c QuizConfig) Validate() error {
	if c.NumberOfQuestions < 0 {
		return fmt.Errorf("number_of_questions must not be negative, got %d", c.NumberOfQuestions)
	}
	for _, qc := range c.QuestionConfig {
		if qc.QuestionNumber < 1 {
			return fmt.Errorf("question_number must be 1-based, got %d", qc.QuestionNumber)
		}
		if qc.Points < 0 {
			return fmt.Errorf("question %d: points must not be negative", qc.QuestionNumber)
		}
		if qc.TimeLimit < 0 {
			return fmt.Errorf("question %d: time_limit must not be negative", qc.QuestionNumber)
		}
	}
	for _, id := range c.SelectedLifelines {
		if !id.Valid() {
			return fmt.Errorf("unknown lifeline %q", id)
		}
	}
	return nil
}

// HasLifeline reports whether the quiz offers the given lifeline.
func (c QuizConfig) HasLifeline(id LifelineID) bool {
	for _, l := range c.SelectedLifelines {
		if l == id {
			return true
		}
	}
	return false
}

// DefaultTimeLimit is used for ladder positions without a time override.
const DefaultTimeLimit = 30 * time.Second

// Rung is one resolved ladder position.
type Rung struct {
	Number    int           `json:"number"` // 1-based
	Points    int           `json:"points"`
	TimeLimit time.Duration `json:"time_limit"`
}

// Ladder is the ordered list of positions a session plays through.
type Ladder []Rung

// BuildLadder resolves n ladder positions from the quiz config. Positions without an
// override keep the question's own value (Points = -1) and the default time limit.
func BuildLadder(cfg QuizConfig, n int) Ladder {
	overrides := make(map[int]QuestionConfig, len(cfg.QuestionConfig))
	for _, qc := range cfg.QuestionConfig {
		overrides[qc.QuestionNumber] = qc
	}

	ladder := make(Ladder, n)
	for i := range ladder {
		rung := Rung{Number: i + 1, Points: -1, TimeLimit: DefaultTimeLimit}
		if qc, ok := overrides[i+1]; ok {
			rung.Points = qc.Points
			if qc.TimeLimit > 0 {
				rung.TimeLimit = time.Duration(qc.TimeLimit) * time.Second
			}
		}
		ladder[i] = rung
	}
	return ladder
}

// Position returns the rung at a 0-based index, or false when out of range.
func (l Ladder) Position(i int) (Rung, bool) {
	if i < 0 || i >= len(l) {
		return Rung{}, false
	}
	return l[i], true
}
