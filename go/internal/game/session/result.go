package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/schedule"
	"github.com/mcdev12/quizshow/go/internal/models"
)

func (s *Session) onSummary(t schedule.Ticket) {
	s.mu.Lock()
	if s.closed || !s.sched.Consume(t) || s.result != nil {
		s.mu.Unlock()
		return
	}
	result := s.buildResultLocked()
	s.unlock()

	s.persist(*result)
}

// buildResultLocked freezes the terminal state into the one result this session emits.
func (s *Session) buildResultLocked() *models.GameResult {
	s.showResult = true
	s.result = &models.GameResult{
		SessionID:     s.id,
		QuizID:        s.quiz.ID,
		TeamID:        s.teamID,
		TotalWon:      s.points,
		QuestionLevel: s.index + 1,
		IsWinner:      s.status == StatusWon,
		Outcome:       outcomeOf(s.status),
		Actions:       append([]models.GameAction(nil), s.history...),
		StartedAt:     s.startedAt,
		FinishedAt:    s.clock.Now(),
	}
	s.emitLocked(events.EventTypeGameFinished, events.GameFinishedPayload{Result: *s.result})
	return s.result
}

// persist hands the result to the sink. A failure is reported to the player and logged;
// the in-memory result stands either way.
func (s *Session) persist(result models.GameResult) {
	if s.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistTimeout)
	defer cancel()

	if err := s.results.SaveResult(ctx, result); err != nil {
		log.Error().Err(err).
			Str("session_id", s.id.String()).
			Str("team_id", result.TeamID).
			Msg("failed to save game result")
		if s.notifier != nil {
			s.notifier.Notify("Your score could not be saved. Your result still stands.")
		}
		return
	}
	log.Info().
		Str("session_id", s.id.String()).
		Int("total_won", result.TotalWon).
		Bool("is_winner", result.IsWinner).
		Msg("game result saved")
}

func outcomeOf(st Status) models.Outcome {
	switch st {
	case StatusWon:
		return models.OutcomeWon
	case StatusWalkedAway:
		return models.OutcomeWalkedAway
	default:
		return models.OutcomeLost
	}
}
