package play

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// UIMode captures whether to use the full-screen UI.
type UIMode struct {
	Live    bool
	Warning string
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

// ResolveUIMode maps auto|live|plain to a concrete mode for out.
func ResolveUIMode(mode string, out io.Writer) (UIMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		normalized = "auto"
	}
	switch normalized {
	case "auto":
		return UIMode{Live: isTerminal(out)}, nil
	case "live":
		if isTerminal(out) {
			return UIMode{Live: true}, nil
		}
		return UIMode{Warning: "Live UI requested but stdout is not a TTY; falling back to plain output."}, nil
	case "plain":
		return UIMode{}, nil
	default:
		return UIMode{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

func defaultIsTerminal(out io.Writer) bool {
	if out == nil {
		return false
	}
	if file, ok := out.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := out.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
