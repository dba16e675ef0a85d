package lifeline

import "errors"

var (
	ErrUnknownLifeline  = errors.New("unknown lifeline")
	ErrNotEnoughOptions = errors.New("question needs at least two options")
	ErrInvalidPoll      = errors.New("audience poll is inconsistent")
)
