package session

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/schedule"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// Every transition is guarded by preconditions. A call that fails them changes nothing
// and reports false; it is never an error.

func (s *Session) ignore(op, reason string) bool {
	log.Debug().
		Str("session_id", s.id.String()).
		Str("op", op).
		Str("reason", reason).
		Str("status", string(s.status)).
		Int("question_index", s.index).
		Msg("transition ignored")
	return false
}

// playableLocked reports whether the current question accepts player input.
func (s *Session) playableLocked() bool {
	return !s.closed && s.status == StatusInProgress && !s.hostPaused && !s.locked && !s.revealed
}

// Start prepares the questions and opens the first one.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || s.status != StatusNotStarted {
		return s.ignore("start", "already started")
	}

	s.questions, s.ladder = prepareQuestions(s.source, s.quiz, s.rand)
	s.status = StatusInProgress
	s.startedAt = s.clock.Now()

	s.emitLocked(events.EventTypeGameStarted, events.GameStartedPayload{
		QuizID:         s.quiz.ID,
		TeamID:         s.teamID,
		TotalQuestions: len(s.questions),
		Lifelines:      s.quiz.SelectedLifelines,
		StartedAt:      s.startedAt,
	})
	s.sounds.GameStarted()
	s.beginQuestionLocked(0)

	log.Info().
		Str("session_id", s.id.String()).
		Str("quiz_id", s.quiz.ID).
		Str("team_id", s.teamID).
		Int("questions", len(s.questions)).
		Msg("session started")
	return true
}

// beginQuestionLocked resets per-question state and starts the countdown for index.
func (s *Session) beginQuestionLocked(index int) {
	s.index = index
	s.selected = nil
	s.locked = false
	s.revealed = false
	s.showResult = false
	s.lastCorrect = false
	s.lastOutcome = nil
	s.message = ""
	clear(s.disabled)

	q := s.questions[index]
	rung := s.ladder[index]
	s.timer.Start(rung.TimeLimit)
	if index > 0 {
		s.sounds.QuestionChanged(index)
	}

	s.emitLocked(events.EventTypeQuestionStarted, events.QuestionStartedPayload{
		Index:        index,
		Number:       rung.Number,
		Text:         q.Text,
		Options:      q.Options,
		Category:     q.Category,
		Points:       q.Value,
		TimeLimitSec: int(rung.TimeLimit.Seconds()),
		StartedAt:    s.clock.Now(),
	})
}

// SelectOption picks option i and pauses the countdown.
func (s *Session) SelectOption(i int) bool {
	s.mu.Lock()
	defer s.unlock()
	if !s.playableLocked() {
		return s.ignore("select_option", "question not open")
	}
	if s.selected != nil {
		return s.ignore("select_option", "option already selected")
	}
	if i < 0 || i >= len(s.questions[s.index].Options) {
		return s.ignore("select_option", "option out of range")
	}
	if s.disabled[i] {
		return s.ignore("select_option", "option disabled")
	}

	s.selected = &i
	s.timer.Pause()
	s.sounds.OptionPicked()
	s.emitLocked(events.EventTypeOptionSelected, events.OptionSelectedPayload{Index: s.index, Option: i})
	return true
}

// LockInAnswer commits the selected option and reveals it after the reveal delay.
func (s *Session) LockInAnswer() bool {
	s.mu.Lock()
	defer s.unlock()
	if !s.playableLocked() {
		return s.ignore("lock_in", "question not open")
	}
	if s.selected == nil {
		return s.ignore("lock_in", "no option selected")
	}

	q := s.questions[s.index]
	option := *s.selected
	correct := option == q.CorrectOptionIndex
	s.locked = true
	s.appendLocked(models.ActionAnswer, models.ActionData{
		QuestionIndex:  s.index,
		SelectedOption: &option,
		Correct:        &correct,
	})

	s.sounds.AnswerLocked(s.index)
	s.emitLocked(events.EventTypeAnswerLocked, events.OptionSelectedPayload{Index: s.index, Option: option})
	s.sched.After(keyReveal, s.cfg.RevealDelay, s.onReveal)
	return true
}

func (s *Session) onReveal(t schedule.Ticket) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || !s.sched.Consume(t) {
		return
	}
	s.revealLocked()
}

func (s *Session) revealLocked() {
	q := s.questions[s.index]
	option := *s.selected
	correct := option == q.CorrectOptionIndex
	s.revealed = true
	s.lastCorrect = correct

	s.sounds.ResultRevealed(s.index, correct)

	awarded := 0
	last := s.index == len(s.questions)-1
	switch {
	case correct && last:
		awarded = q.Value
		s.points += awarded
		s.message = fmt.Sprintf("Congratulations! You answered every question and won %d points!", s.points)
		s.finishLocked(StatusWon)
	case correct:
		awarded = q.Value
		s.points += awarded
		s.message = fmt.Sprintf("Correct! You now have %d points.", s.points)
		s.sched.After(keyAdvance, s.cfg.AdvanceDelay, s.onAdvance)
	default:
		s.message = fmt.Sprintf("Wrong answer. The correct answer was %q.", q.CorrectText())
		s.finishLocked(StatusLost)
	}

	s.emitLocked(events.EventTypeAnswerRevealed, events.AnswerRevealedPayload{
		Index:         s.index,
		Option:        &option,
		CorrectOption: q.CorrectOptionIndex,
		CorrectText:   q.CorrectText(),
		Correct:       correct,
		PointsAwarded: awarded,
		TotalPoints:   s.points,
		Message:       s.message,
		Explanation:   q.Explanation,
	})
}

func (s *Session) onAdvance(t schedule.Ticket) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || !s.sched.Consume(t) {
		return
	}
	s.advanceLocked()
}

// AdvanceQuestion moves on after a correct answer without waiting for the advance
// delay.
func (s *Session) AdvanceQuestion() bool {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || s.status != StatusInProgress || !s.revealed || !s.lastCorrect {
		return s.ignore("advance", "no correct answer revealed")
	}
	if s.index >= len(s.questions)-1 {
		return s.ignore("advance", "last question")
	}
	s.sched.Cancel(keyAdvance)
	s.advanceLocked()
	return true
}

func (s *Session) advanceLocked() {
	s.beginQuestionLocked(s.index + 1)
}

// UseLifeline spends a lifeline on the current question and returns its outcome.
// Lifelines are available only before an option is selected.
func (s *Session) UseLifeline(id models.LifelineID) (lifeline.Outcome, bool) {
	s.mu.Lock()
	defer s.unlock()
	if !s.playableLocked() {
		return lifeline.Outcome{}, s.ignore("use_lifeline", "question not open")
	}
	if s.selected != nil {
		return lifeline.Outcome{}, s.ignore("use_lifeline", "option already selected")
	}
	if !s.quiz.HasLifeline(id) {
		return lifeline.Outcome{}, s.ignore("use_lifeline", "lifeline not offered")
	}
	if s.used[id] {
		return lifeline.Outcome{}, s.ignore("use_lifeline", "lifeline already used")
	}

	out, err := s.lifelines.Use(id, s.questions[s.index])
	if err != nil {
		log.Warn().Err(err).Str("session_id", s.id.String()).Str("lifeline", string(id)).Msg("lifeline failed")
		return lifeline.Outcome{}, false
	}

	s.used[id] = true
	for _, h := range out.Hidden {
		s.disabled[h] = true
	}
	s.lastOutcome = &out
	s.appendLocked(models.ActionLifeline, models.ActionData{QuestionIndex: s.index, Lifeline: id})

	s.sounds.LifelineUsed()
	s.emitLocked(events.EventTypeLifelineUsed, events.LifelineUsedPayload{Index: s.index, Outcome: out})
	return out, true
}

func (s *Session) onTick(secondsLeft int) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || s.status != StatusInProgress {
		return
	}
	s.emitLocked(events.EventTypeTimerTick, events.TimerTickPayload{
		Index:            s.index,
		TimeRemainingSec: secondsLeft,
		TickedAt:         s.clock.Now(),
	})
}

func (s *Session) onExpire() {
	s.mu.Lock()
	defer s.unlock()
	// A countdown restarted for the next question reports not expired, so a late
	// delivery from the previous run does nothing here.
	if !s.timer.Expired() {
		return
	}
	s.timeExpireLocked()
}

// TimeExpire ends the current question as a forced loss unless an answer is already
// locked in. The countdown calls it on expiry.
func (s *Session) TimeExpire() bool {
	s.mu.Lock()
	defer s.unlock()
	return s.timeExpireLocked()
}

func (s *Session) timeExpireLocked() bool {
	if s.closed || s.status != StatusInProgress || s.locked || s.revealed {
		return s.ignore("time_expire", "answer already locked in")
	}

	q := s.questions[s.index]
	correct := false
	s.appendLocked(models.ActionAnswer, models.ActionData{
		QuestionIndex:  s.index,
		SelectedOption: s.selected,
		Correct:        &correct,
		Timeout:        true,
	})
	s.locked = true
	s.revealed = true
	s.message = fmt.Sprintf("Time's up! The correct answer was %q.", q.CorrectText())

	s.sounds.ResultRevealed(s.index, false)
	s.finishLocked(StatusLost)

	s.emitLocked(events.EventTypeAnswerRevealed, events.AnswerRevealedPayload{
		Index:         s.index,
		Option:        s.selected,
		CorrectOption: q.CorrectOptionIndex,
		CorrectText:   q.CorrectText(),
		TimedOut:      true,
		TotalPoints:   s.points,
		Message:       s.message,
		Explanation:   q.Explanation,
	})
	return true
}

// WalkAway ends the game keeping the points won so far.
func (s *Session) WalkAway() bool {
	s.mu.Lock()
	defer s.unlock()
	if !s.playableLocked() {
		return s.ignore("walk_away", "question not open")
	}

	s.appendLocked(models.ActionWalkAway, models.ActionData{QuestionIndex: s.index, Points: s.points})
	s.message = fmt.Sprintf("You walked away with %d points.", s.points)
	s.finishLocked(StatusWalkedAway)
	s.sounds.GameEnded(false)
	return true
}

// finishLocked enters a terminal status and schedules the result summary.
func (s *Session) finishLocked(status Status) {
	s.status = status
	s.timer.Pause()
	s.sched.Cancel(keyAdvance)
	if status == StatusWon {
		s.sounds.GameEnded(true)
	}
	s.sched.After(keySummary, s.cfg.SummaryDelay, s.onSummary)

	log.Info().
		Str("session_id", s.id.String()).
		Str("status", string(status)).
		Int("points", s.points).
		Int("question_level", s.index+1).
		Msg("session finished")
}

// Undo reverts the most recent action as far as it can. Reverting a lifeline makes it
// usable again and, for a 50:50 on the current question, restores the hidden options.
// Reverting a walk-away reopens the question while the result is still pending.
// Reverting an answer only removes it from the history; answers are irrevocable.
func (s *Session) Undo() (models.GameAction, bool) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || s.result != nil || len(s.history) == 0 {
		return models.GameAction{}, s.ignore("undo", "nothing to undo")
	}
	if s.hostPaused {
		return models.GameAction{}, s.ignore("undo", "paused")
	}

	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	switch last.Type {
	case models.ActionLifeline:
		delete(s.used, last.Data.Lifeline)
		if last.Data.Lifeline == models.LifelineFiftyFifty && last.Data.QuestionIndex == s.index {
			clear(s.disabled)
		}
		if s.lastOutcome != nil && s.lastOutcome.Lifeline == last.Data.Lifeline {
			s.lastOutcome = nil
		}
	case models.ActionWalkAway:
		if s.status == StatusWalkedAway {
			s.sched.Cancel(keySummary)
			s.status = StatusInProgress
			s.message = ""
			s.sounds.QuestionReopened(s.index)
			if s.selected == nil {
				s.timer.Resume()
			}
		}
	case models.ActionAnswer:
		// irrevocable
	}

	s.emitLocked(events.EventTypeActionUndone, events.ActionUndonePayload{Action: last})
	log.Info().
		Str("session_id", s.id.String()).
		Str("action", string(last.Type)).
		Int("question_index", last.Data.QuestionIndex).
		Msg("action undone")
	return last, true
}

// Pause freezes the current question for the host.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.unlock()
	if !s.playableLocked() {
		return s.ignore("pause", "question not open")
	}
	s.hostPaused = true
	s.timer.Pause()
	s.sounds.Paused()
	s.emitLocked(events.EventTypeGamePaused, events.GamePausedPayload{
		PausedAt:         s.clock.Now(),
		TimeRemainingSec: s.timer.RemainingSeconds(),
	})
	return true
}

// Resume continues a paused question. The countdown stays frozen while an option is
// selected.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || !s.hostPaused {
		return s.ignore("resume", "not paused")
	}
	s.hostPaused = false
	if s.selected == nil {
		s.timer.Resume()
	}
	s.emitLocked(events.EventTypeGameResumed, events.GameResumedPayload{ResumedAt: s.clock.Now()})
	return true
}

// SetMuted mutes or unmutes the session's audio.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.sounds.SetMuted(muted)
}

func (s *Session) appendLocked(typ models.ActionType, data models.ActionData) {
	s.history = append(s.history, models.GameAction{
		ID:   uuid.New(),
		Type: typ,
		Data: data,
		At:   s.clock.Now(),
	})
}
