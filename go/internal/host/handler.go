package host

import (
	"net/http"

	"connectrpc.com/connect"
)

// HostServiceName is the fully-qualified name of the host service.
const HostServiceName = "quizshow.host.v1.HostService"

const (
	StartGameProcedure    = "/" + HostServiceName + "/StartGame"
	SelectOptionProcedure = "/" + HostServiceName + "/SelectOption"
	LockInAnswerProcedure = "/" + HostServiceName + "/LockInAnswer"
	UseLifelineProcedure  = "/" + HostServiceName + "/UseLifeline"
	WalkAwayProcedure     = "/" + HostServiceName + "/WalkAway"
	UndoProcedure         = "/" + HostServiceName + "/Undo"
	PauseProcedure        = "/" + HostServiceName + "/Pause"
	ResumeProcedure       = "/" + HostServiceName + "/Resume"
	SetMutedProcedure     = "/" + HostServiceName + "/SetMuted"
	GetStateProcedure     = "/" + HostServiceName + "/GetState"
)

// NewHostServiceHandler builds an HTTP handler serving every host procedure. It returns
// the path prefix to mount it on.
func NewHostServiceHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(JSONCodec{}))

	mux := http.NewServeMux()
	mux.Handle(StartGameProcedure, connect.NewUnaryHandler(StartGameProcedure, svc.StartGame, opts...))
	mux.Handle(SelectOptionProcedure, connect.NewUnaryHandler(SelectOptionProcedure, svc.SelectOption, opts...))
	mux.Handle(LockInAnswerProcedure, connect.NewUnaryHandler(LockInAnswerProcedure, svc.LockInAnswer, opts...))
	mux.Handle(UseLifelineProcedure, connect.NewUnaryHandler(UseLifelineProcedure, svc.UseLifeline, opts...))
	mux.Handle(WalkAwayProcedure, connect.NewUnaryHandler(WalkAwayProcedure, svc.WalkAway, opts...))
	mux.Handle(UndoProcedure, connect.NewUnaryHandler(UndoProcedure, svc.Undo, opts...))
	mux.Handle(PauseProcedure, connect.NewUnaryHandler(PauseProcedure, svc.Pause, opts...))
	mux.Handle(ResumeProcedure, connect.NewUnaryHandler(ResumeProcedure, svc.Resume, opts...))
	mux.Handle(SetMutedProcedure, connect.NewUnaryHandler(SetMutedProcedure, svc.SetMuted, opts...))
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, svc.GetState, opts...))
	return "/" + HostServiceName + "/", mux
}
