package host

import (
	"context"

	"connectrpc.com/connect"
)

// HostServiceClient calls the host procedures over Connect with JSON bodies.
type HostServiceClient struct {
	startGame    *connect.Client[StartGameRequest, StateResponse]
	selectOption *connect.Client[SelectOptionRequest, StateResponse]
	lockInAnswer *connect.Client[SessionRequest, StateResponse]
	useLifeline  *connect.Client[UseLifelineRequest, UseLifelineResponse]
	walkAway     *connect.Client[SessionRequest, StateResponse]
	undo         *connect.Client[SessionRequest, UndoResponse]
	pause        *connect.Client[SessionRequest, StateResponse]
	resume       *connect.Client[SessionRequest, StateResponse]
	setMuted     *connect.Client[SetMutedRequest, StateResponse]
	getState     *connect.Client[SessionRequest, StateResponse]
}

// NewHostServiceClient creates a client for the host service at baseURL.
func NewHostServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *HostServiceClient {
	opts = append(opts, connect.WithCodec(JSONCodec{}))
	return &HostServiceClient{
		startGame:    connect.NewClient[StartGameRequest, StateResponse](httpClient, baseURL+StartGameProcedure, opts...),
		selectOption: connect.NewClient[SelectOptionRequest, StateResponse](httpClient, baseURL+SelectOptionProcedure, opts...),
		lockInAnswer: connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+LockInAnswerProcedure, opts...),
		useLifeline:  connect.NewClient[UseLifelineRequest, UseLifelineResponse](httpClient, baseURL+UseLifelineProcedure, opts...),
		walkAway:     connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+WalkAwayProcedure, opts...),
		undo:         connect.NewClient[SessionRequest, UndoResponse](httpClient, baseURL+UndoProcedure, opts...),
		pause:        connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+PauseProcedure, opts...),
		resume:       connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+ResumeProcedure, opts...),
		setMuted:     connect.NewClient[SetMutedRequest, StateResponse](httpClient, baseURL+SetMutedProcedure, opts...),
		getState:     connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+GetStateProcedure, opts...),
	}
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *HostServiceClient) StartGame(ctx context.Context, req *StartGameRequest) (*StateResponse, error) {
	return call(ctx, c.startGame, req)
}

func (c *HostServiceClient) SelectOption(ctx context.Context, req *SelectOptionRequest) (*StateResponse, error) {
	return call(ctx, c.selectOption, req)
}

func (c *HostServiceClient) LockInAnswer(ctx context.Context, req *SessionRequest) (*StateResponse, error) {
	return call(ctx, c.lockInAnswer, req)
}

func (c *HostServiceClient) UseLifeline(ctx context.Context, req *UseLifelineRequest) (*UseLifelineResponse, error) {
	return call(ctx, c.useLifeline, req)
}

func (c *HostServiceClient) WalkAway(ctx context.Context, req *SessionRequest) (*StateResponse, error) {
	return call(ctx, c.walkAway, req)
}

func (c *HostServiceClient) Undo(ctx context.Context, req *SessionRequest) (*UndoResponse, error) {
	return call(ctx, c.undo, req)
}

func (c *HostServiceClient) Pause(ctx context.Context, req *SessionRequest) (*StateResponse, error) {
	return call(ctx, c.pause, req)
}

func (c *HostServiceClient) Resume(ctx context.Context, req *SessionRequest) (*StateResponse, error) {
	return call(ctx, c.resume, req)
}

func (c *HostServiceClient) SetMuted(ctx context.Context, req *SetMutedRequest) (*StateResponse, error) {
	return call(ctx, c.setMuted, req)
}

func (c *HostServiceClient) GetState(ctx context.Context, req *SessionRequest) (*StateResponse, error) {
	return call(ctx, c.getState, req)
}
