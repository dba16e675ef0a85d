package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// Printer is a session observer that writes one line per notable event. It serves
// terminals that cannot host the full-screen UI.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) OnEvent(e events.Event) {
	line := p.format(e)
	if line == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

func (p *Printer) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, "!", msg)
}

func (p *Printer) format(e events.Event) string {
	payload, err := events.ParsePayload(e)
	if err != nil {
		return ""
	}
	switch v := payload.(type) {
	case *events.QuestionStartedPayload:
		var b strings.Builder
		fmt.Fprintf(&b, "\nQuestion %d for %d points (%ds): %s", v.Number, v.Points, v.TimeLimitSec, v.Text)
		for i, opt := range v.Options {
			fmt.Fprintf(&b, "\n  %d) %s", i+1, opt)
		}
		return b.String()
	case *events.GamePausedPayload:
		return fmt.Sprintf("Paused with %ds left", v.TimeRemainingSec)
	case *events.GameResumedPayload:
		return "Resumed"
	}
	switch e.Type {
	case events.EventTypeAnswerRevealed, events.EventTypeLifelineUsed, events.EventTypeGameFinished:
		return describeEvent(e)
	}
	return ""
}

const plainHelp = "commands: 1-4 pick, lock, 50, poll, expert, dice, walk, undo, pause, resume, mute, unmute, state, quit"

// RunPlain drives game from line commands read from in until the game has a result, the
// input ends or ctx is done.
func RunPlain(ctx context.Context, game Game, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, plainHelp)

	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	poll := time.NewTicker(250 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
			if game.Snapshot().Result != nil {
				return nil
			}
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			if quit := runCommand(game, strings.TrimSpace(strings.ToLower(line)), out); quit {
				return nil
			}
			if game.Snapshot().Result != nil {
				return nil
			}
		}
	}
}

func runCommand(game Game, cmd string, out io.Writer) (quit bool) {
	switch cmd {
	case "":
	case "lock":
		report(out, game.LockInAnswer(), cmd)
	case "50":
		_, ok := game.UseLifeline(models.LifelineFiftyFifty)
		report(out, ok, cmd)
	case "poll":
		_, ok := game.UseLifeline(models.LifelineAudiencePoll)
		report(out, ok, cmd)
	case "expert":
		_, ok := game.UseLifeline(models.LifelineAskExpert)
		report(out, ok, cmd)
	case "dice":
		_, ok := game.UseLifeline(models.LifelineRollDice)
		report(out, ok, cmd)
	case "walk":
		report(out, game.WalkAway(), cmd)
	case "undo":
		action, ok := game.Undo()
		report(out, ok, cmd)
		if ok {
			fmt.Fprintln(out, "Undid", describeAction(action))
		}
	case "pause":
		report(out, game.Pause(), cmd)
	case "resume":
		report(out, game.Resume(), cmd)
	case "mute", "unmute":
		game.SetMuted(cmd == "mute")
	case "state":
		printState(out, game.Snapshot())
	case "quit", "q":
		return true
	default:
		if n, err := strconv.Atoi(cmd); err == nil {
			report(out, game.SelectOption(n-1), "pick")
			return false
		}
		fmt.Fprintln(out, plainHelp)
	}
	return false
}

func report(out io.Writer, applied bool, what string) {
	if !applied {
		fmt.Fprintf(out, "%s is not possible right now\n", what)
	}
}

func printState(out io.Writer, snap session.Snapshot) {
	fmt.Fprintf(out, "%s, question %d/%d, %d points, %ds left\n",
		snap.Status, snap.QuestionIndex+1, snap.TotalQuestions, snap.Points, snap.TimeLeftSec)
	for _, o := range snap.Options {
		mark := " "
		if snap.SelectedOption != nil && *snap.SelectedOption == o.Index {
			mark = ">"
		}
		text := o.Text
		if o.Disabled {
			text = "---"
		}
		fmt.Fprintf(out, "%s %d) %s\n", mark, o.Index+1, text)
	}
}
