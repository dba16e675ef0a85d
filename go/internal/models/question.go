package models

import (
	"errors"
	"fmt"
)

// Difficulty defines how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is empty or one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

var (
	ErrTooFewOptions       = errors.New("question needs at least two options")
	ErrCorrectOutOfRange   = errors.New("correct option index out of range")
	ErrNegativeValue       = errors.New("question value must not be negative")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
	ErrDuplicateOptionText = errors.New("duplicate option text")
)

// Question is a single multiple-choice question.
type Question struct {
	ID                 string     `json:"id" yaml:"id"`
	Text               string     `json:"text" yaml:"text"`
	Options            []string   `json:"options" yaml:"options"`
	CorrectOptionIndex int        `json:"correct_option_index" yaml:"correct_option_index"`
	Value              int        `json:"value" yaml:"value"`
	Category           string     `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty         Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Explanation        string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Validate checks that a question is well formed.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: %w", q.ID, ErrTooFewOptions)
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return fmt.Errorf("question %s: %w (%d of %d)", q.ID, ErrCorrectOutOfRange, q.CorrectOptionIndex, len(q.Options))
	}
	if q.Value < 0 {
		return fmt.Errorf("question %s: %w", q.ID, ErrNegativeValue)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question %s: %w %q", q.ID, ErrUnknownDifficulty, q.Difficulty)
	}
	// Shuffling tracks the answer by text, so the texts must be distinct.
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("question %s: %w %q", q.ID, ErrDuplicateOptionText, opt)
		}
		seen[opt] = struct{}{}
	}
	return nil
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	return q.Options[q.CorrectOptionIndex]
}

// Clone returns a deep copy so option shuffling never touches the caller's slice.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}
