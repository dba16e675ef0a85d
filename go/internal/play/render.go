package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/models"
)

var (
	colorTitle    = lipgloss.Color("33")
	colorDim      = lipgloss.Color("242")
	colorSelected = lipgloss.Color("214")
	colorCorrect  = lipgloss.Color("42")
	colorWrong    = lipgloss.Color("196")
	colorNotice   = lipgloss.Color("203")
)

var optionLetters = []string{"A", "B", "C", "D", "E", "F"}

func renderHeader(title string, snap session.Snapshot, noColor bool) string {
	if title == "" {
		title = "Quiz"
	}
	line := title
	if snap.TotalQuestions > 0 && snap.Status != session.StatusNotStarted {
		line += fmt.Sprintf(" | Question %d/%d for %d", snap.QuestionIndex+1, snap.TotalQuestions, snap.QuestionPoints)
	}
	line += fmt.Sprintf(" | Points: %d", snap.Points)
	if snap.Muted {
		line += " | muted"
	}
	return stylize(line, noColor, colorTitle, true)
}

func renderQuestion(snap session.Snapshot, noColor bool) string {
	if snap.Question == "" {
		return ""
	}
	text := "\n" + snap.Question
	if snap.Category != "" {
		text += " " + stylize("("+snap.Category+")", noColor, colorDim, false)
	}
	return text + "\n"
}

func renderOptions(snap session.Snapshot, noColor bool) string {
	lines := make([]string, 0, len(snap.Options))
	for _, o := range snap.Options {
		letter := "?"
		if o.Index < len(optionLetters) {
			letter = optionLetters[o.Index]
		}
		selected := snap.SelectedOption != nil && *snap.SelectedOption == o.Index
		marker := "  "
		if selected {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s) %s", marker, letter, o.Text)
		if o.Disabled {
			line = fmt.Sprintf("%s%s) ---", marker, letter)
		}

		switch {
		case snap.CorrectOption != nil && *snap.CorrectOption == o.Index:
			line = stylize(line, noColor, colorCorrect, true)
		case snap.CorrectOption != nil && selected:
			line = stylize(line, noColor, colorWrong, true)
		case selected && snap.Locked:
			line = stylize(line+"  [locked]", noColor, colorSelected, true)
		case selected:
			line = stylize(line, noColor, colorSelected, false)
		case o.Disabled:
			line = stylize(line, noColor, colorDim, false)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderTimer(snap session.Snapshot, bar progress.Model) string {
	if snap.Status != session.StatusInProgress {
		return ""
	}
	rung, ok := snap.Ladder.Position(snap.QuestionIndex)
	limit := models.DefaultTimeLimit.Seconds()
	if ok && rung.TimeLimit > 0 {
		limit = rung.TimeLimit.Seconds()
	}
	frac := float64(snap.TimeLeftSec) / limit
	frac = max(0, min(1, frac))

	label := fmt.Sprintf(" %2ds", snap.TimeLeftSec)
	switch {
	case snap.HostPaused:
		label += " (paused)"
	case snap.TimerPaused:
		label += " (stopped)"
	}
	return "\n" + bar.ViewAs(frac) + label
}

func renderLifelines(snap session.Snapshot, noColor bool) string {
	if len(snap.Lifelines) == 0 {
		return ""
	}
	parts := make([]string, 0, len(snap.Lifelines))
	for _, l := range snap.Lifelines {
		name := lifelineLabel(l.ID)
		if l.Used {
			parts = append(parts, stylize(name, noColor, colorDim, false)+" (used)")
			continue
		}
		parts = append(parts, name)
	}
	return "Lifelines: " + strings.Join(parts, "  ")
}

func renderStatus(snap session.Snapshot, last, notice string, noColor bool) string {
	var lines []string
	if snap.Message != "" {
		lines = append(lines, snap.Message)
	} else if last != "" {
		lines = append(lines, last)
	}
	if notice != "" {
		lines = append(lines, stylize(notice, noColor, colorNotice, false))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func renderResult(snap session.Snapshot, noColor bool) string {
	r := snap.Result
	if r == nil {
		return ""
	}
	var headline string
	switch r.Outcome {
	case models.OutcomeWon:
		headline = "You won!"
	case models.OutcomeWalkedAway:
		headline = "You walked away."
	default:
		headline = "Game over."
	}
	line := fmt.Sprintf("%s %d points, reached question %d. Press enter to exit.", headline, r.TotalWon, r.QuestionLevel)
	color := colorWrong
	if r.IsWinner {
		color = colorCorrect
	}
	return "\n" + stylize(line, noColor, color, true)
}

func lifelineLabel(id models.LifelineID) string {
	switch id {
	case models.LifelineFiftyFifty:
		return "[f] 50:50"
	case models.LifelineAudiencePoll:
		return "[p] Audience poll"
	case models.LifelineAskExpert:
		return "[e] Ask the expert"
	case models.LifelineRollDice:
		return "[r] Roll the dice"
	default:
		return string(id)
	}
}

// describeEvent summarises the events worth a status line.
func describeEvent(e events.Event) string {
	payload, err := events.ParsePayload(e)
	if err != nil {
		return ""
	}
	switch p := payload.(type) {
	case *events.AnswerRevealedPayload:
		if p.Explanation != "" {
			return p.Message + " " + p.Explanation
		}
		return p.Message
	case *events.LifelineUsedPayload:
		out := p.Outcome
		switch {
		case out.Poll != nil:
			return "Audience: " + formatPoll(out.Poll)
		case out.Expert != nil:
			return "Expert: " + out.Expert.Advice
		case out.Dice != nil && out.Dice.Revealed:
			return fmt.Sprintf("Rolled %d: the answer is %s", out.Dice.Roll, out.Dice.RevealedText)
		case out.Dice != nil:
			return fmt.Sprintf("Rolled %d: no luck this time", out.Dice.Roll)
		case len(out.Hidden) > 0:
			return "Two wrong answers removed"
		}
	case *events.GameFinishedPayload:
		return fmt.Sprintf("Final score: %d", p.Result.TotalWon)
	}
	return ""
}

func describeAction(a models.GameAction) string {
	switch a.Type {
	case models.ActionLifeline:
		return "lifeline " + string(a.Data.Lifeline)
	case models.ActionWalkAway:
		return "walk away"
	default:
		return "answer (answers stand)"
	}
}

func formatPoll(poll []int) string {
	parts := make([]string, len(poll))
	for i, pct := range poll {
		letter := "?"
		if i < len(optionLetters) {
			letter = optionLetters[i]
		}
		parts[i] = fmt.Sprintf("%s %d%%", letter, pct)
	}
	return strings.Join(parts, "  ")
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color, bold bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}
