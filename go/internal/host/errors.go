package host

import (
	"errors"
	"fmt"

	"github.com/mcdev12/quizshow/go/internal/gateway"
)

var (
	ErrSessionNotFound = fmt.Errorf("host: %w", gateway.ErrSessionNotFound)
	ErrInvalidLifeline = errors.New("unknown lifeline")
	ErrShuttingDown    = errors.New("host is shutting down")
)
