package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/models"
)

// Sink persists or forwards a finished game's result.
type Sink interface {
	SaveResult(ctx context.Context, result models.GameResult) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, result models.GameResult) error

func (f SinkFunc) SaveResult(ctx context.Context, result models.GameResult) error {
	return f(ctx, result)
}

// Named labels a sink for logs.
type Named struct {
	Name string
	Sink Sink
}

// Recorder forwards one result to a primary sink and any number of secondary sinks.
// Only the primary's error is returned; secondary failures are logged together.
type Recorder struct {
	primary   Named
	secondary []Named
}

// NewRecorder builds a recorder. A nil primary sink is allowed for offline play.
func NewRecorder(primary Named, secondary ...Named) *Recorder {
	kept := secondary[:0:0]
	for _, s := range secondary {
		if s.Sink != nil {
			kept = append(kept, s)
		}
	}
	return &Recorder{primary: primary, secondary: kept}
}

// SaveResult implements Sink.
func (r *Recorder) SaveResult(ctx context.Context, result models.GameResult) error {
	var primaryErr error
	if r.primary.Sink != nil {
		if err := r.primary.Sink.SaveResult(ctx, result); err != nil {
			primaryErr = fmt.Errorf("%s: %w", r.primary.Name, err)
		}
	}

	var errs []error
	for _, s := range r.secondary {
		if err := s.Sink.SaveResult(ctx, result); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).
			Str("session_id", result.SessionID.String()).
			Int("failed", len(errs)).
			Msg("secondary result sinks failed")
	}
	return primaryErr
}

// Sinks lists the names of every configured sink, primary first.
func (r *Recorder) Sinks() []string {
	var names []string
	if r.primary.Sink != nil {
		names = append(names, r.primary.Name)
	}
	for _, s := range r.secondary {
		names = append(names, s.Name)
	}
	return names
}
