package session

import (
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// OptionView is one answer option as the player sees it.
type OptionView struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Snapshot is a read model of the session for hosts, spectators and the terminal UI.
type Snapshot struct {
	SessionID      uuid.UUID          `json:"session_id"`
	QuizID         string             `json:"quiz_id,omitempty"`
	TeamID         string             `json:"team_id,omitempty"`
	Status         Status             `json:"status"`
	QuestionIndex  int                `json:"question_index"`
	TotalQuestions int                `json:"total_questions"`
	Question       string             `json:"question,omitempty"`
	Category       string             `json:"category,omitempty"`
	Options        []OptionView       `json:"options,omitempty"`
	QuestionPoints int                `json:"question_points"`
	SelectedOption *int               `json:"selected_option,omitempty"`
	Locked         bool               `json:"locked"`
	Revealed       bool               `json:"revealed"`
	ShowResult     bool               `json:"show_result"`
	CorrectOption  *int               `json:"correct_option,omitempty"` // set once revealed
	Points         int                `json:"points"`
	TimeLeftSec    int                `json:"time_left_sec"`
	TimerPaused    bool               `json:"timer_paused"`
	HostPaused     bool               `json:"host_paused"`
	Muted          bool               `json:"muted"`
	Lifelines      []LifelineView     `json:"lifelines"`
	LastLifeline   *lifeline.Outcome  `json:"last_lifeline,omitempty"`
	Message        string             `json:"message,omitempty"`
	CanUndo        bool               `json:"can_undo"`
	Ladder         models.Ladder      `json:"ladder,omitempty"`
	Result         *models.GameResult `json:"result,omitempty"`
}

// LifelineView is a lifeline offered by the quiz and whether it is spent.
type LifelineView struct {
	ID   models.LifelineID `json:"id"`
	Used bool              `json:"used"`
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:      s.id,
		QuizID:         s.quiz.ID,
		TeamID:         s.teamID,
		Status:         s.status,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.questions),
		Locked:         s.locked,
		Revealed:       s.revealed,
		ShowResult:     s.showResult,
		Points:         s.points,
		TimeLeftSec:    s.timer.RemainingSeconds(),
		TimerPaused:    s.timer.Paused(),
		HostPaused:     s.hostPaused,
		Muted:          s.sounds.Muted(),
		Message:        s.message,
		CanUndo:        s.result == nil && len(s.history) > 0,
		Ladder:         append(models.Ladder(nil), s.ladder...),
	}
	if s.selected != nil {
		sel := *s.selected
		snap.SelectedOption = &sel
	}
	for _, id := range s.quiz.SelectedLifelines {
		snap.Lifelines = append(snap.Lifelines, LifelineView{ID: id, Used: s.used[id]})
	}
	if s.lastOutcome != nil {
		out := *s.lastOutcome
		snap.LastLifeline = &out
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}

	if s.status == StatusNotStarted {
		return snap
	}
	q := s.questions[s.index]
	snap.Question = q.Text
	snap.Category = q.Category
	snap.QuestionPoints = q.Value
	for i, text := range q.Options {
		snap.Options = append(snap.Options, OptionView{Index: i, Text: text, Disabled: s.disabled[i]})
	}
	if s.revealed {
		c := q.CorrectOptionIndex
		snap.CorrectOption = &c
	}
	return snap
}
