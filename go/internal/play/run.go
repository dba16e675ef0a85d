package play

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the full-screen UI until the player quits or ctx is done.
func Run(ctx context.Context, game Game, feed *Feed, opts Options) error {
	program := tea.NewProgram(NewModel(game, feed, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
