package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/session"
)

var ErrSessionNotFound = errors.New("session not found")

// StateProvider exposes live sessions so late spectators can catch up before the
// event stream takes over.
type StateProvider interface {
	SessionState(ctx context.Context, sessionID uuid.UUID) (*session.Snapshot, error)
	ActiveSessions(ctx context.Context) ([]SessionSummary, error)
}

// SessionSummary is one row of the active sessions listing
type SessionSummary struct {
	SessionID      uuid.UUID      `json:"session_id"`
	QuizID         string         `json:"quiz_id,omitempty"`
	TeamID         string         `json:"team_id,omitempty"`
	Status         session.Status `json:"status"`
	QuestionIndex  int            `json:"question_index"`
	TotalQuestions int            `json:"total_questions"`
	Points         int            `json:"points"`
}

// SummaryOf condenses a snapshot into a listing row.
func SummaryOf(s session.Snapshot) SessionSummary {
	return SessionSummary{
		SessionID:      s.SessionID,
		QuizID:         s.QuizID,
		TeamID:         s.TeamID,
		Status:         s.Status,
		QuestionIndex:  s.QuestionIndex,
		TotalQuestions: s.TotalQuestions,
		Points:         s.Points,
	}
}

// StateHandler handles HTTP requests for session state
type StateHandler struct {
	stateProvider StateProvider
}

func NewStateHandler(provider StateProvider) *StateHandler {
	return &StateHandler{stateProvider: provider}
}

// HandleGetSessionState handles GET /api/sessions/{id}/state
func (h *StateHandler) HandleGetSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid session ID format", http.StatusBadRequest)
		return
	}

	state, err := h.stateProvider.SessionState(r.Context(), sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to get session state")
		http.Error(w, "Failed to get session state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Error().Err(err).Msg("failed to encode session state response")
	}
}

// HandleGetActiveSessions handles GET /api/sessions/active
func (h *StateHandler) HandleGetActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.stateProvider.ActiveSessions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get active sessions")
		http.Error(w, "Failed to get active sessions", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []SessionSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sessions); err != nil {
		log.Error().Err(err).Msg("failed to encode active sessions response")
	}
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sessions/active", h.HandleGetActiveSessions)
	mux.HandleFunc("GET /api/sessions/{id}/state", h.HandleGetSessionState)
}
