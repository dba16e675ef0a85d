package host

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/questionbank"
)

// Service implements the HostService Connect procedures on top of App
type Service struct {
	app *App
}

// NewService creates a new host service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// StartGame starts a new session for a quiz
func (s *Service) StartGame(ctx context.Context, req *connect.Request[StartGameRequest]) (*connect.Response[StateResponse], error) {
	if req.Msg.QuizID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("quiz_id is required"))
	}
	resp, err := s.app.StartGame(ctx, req.Msg.QuizID, req.Msg.TeamID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&resp), nil
}

// SelectOption highlights an option on the open question
func (s *Service) SelectOption(_ context.Context, req *connect.Request[SelectOptionRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.SelectOption(id, req.Msg.Option))
}

// LockInAnswer commits the selected option
func (s *Service) LockInAnswer(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.LockInAnswer(id))
}

// UseLifeline spends a lifeline on the open question
func (s *Service) UseLifeline(_ context.Context, req *connect.Request[UseLifelineRequest]) (*connect.Response[UseLifelineResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.UseLifeline(id, req.Msg.Lifeline))
}

// WalkAway ends the game keeping the points won so far
func (s *Service) WalkAway(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.WalkAway(id))
}

// Undo reverts the most recent action
func (s *Service) Undo(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[UndoResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.Undo(id))
}

// Pause freezes the open question
func (s *Service) Pause(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.Pause(id))
}

// Resume continues a paused question
func (s *Service) Resume(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.Resume(id))
}

// SetMuted mutes or unmutes the session's cues
func (s *Service) SetMuted(_ context.Context, req *connect.Request[SetMutedRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.SetMuted(id, req.Msg.Muted))
}

// GetState returns the current session state
func (s *Service) GetState(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[StateResponse], error) {
	id, err := parseSessionID(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return respond(s.app.GetState(id))
}

func parseSessionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return id, nil
}

func respond[T any](msg T, err error) (*connect.Response[T], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&msg), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, questionbank.ErrQuizNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrInvalidLifeline):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrShuttingDown):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
