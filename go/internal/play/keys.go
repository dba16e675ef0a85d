package play

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/mcdev12/quizshow/go/internal/models"
)

type keyMap struct {
	Options      []key.Binding
	LockIn       key.Binding
	FiftyFifty   key.Binding
	AudiencePoll key.Binding
	AskExpert    key.Binding
	RollDice     key.Binding
	WalkAway     key.Binding
	Undo         key.Binding
	Pause        key.Binding
	Mute         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Options: []key.Binding{
			key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1-4", "pick")),
			key.NewBinding(key.WithKeys("2", "b")),
			key.NewBinding(key.WithKeys("3", "c")),
			key.NewBinding(key.WithKeys("4", "d")),
		},
		LockIn:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "lock in")),
		FiftyFifty:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "50:50")),
		AudiencePoll: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "poll")),
		AskExpert:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expert")),
		RollDice:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "dice")),
		WalkAway:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "walk away")),
		Undo:         key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Pause:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Mute:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// lifelineKeys pairs every lifeline with its binding.
func (k keyMap) lifelineKeys() map[models.LifelineID]key.Binding {
	return map[models.LifelineID]key.Binding{
		models.LifelineFiftyFifty:   k.FiftyFifty,
		models.LifelineAudiencePoll: k.AudiencePoll,
		models.LifelineAskExpert:    k.AskExpert,
		models.LifelineRollDice:     k.RollDice,
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Options[0], k.LockIn, k.WalkAway, k.Undo, k.Pause, k.Mute, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.FiftyFifty, k.AudiencePoll, k.AskExpert, k.RollDice},
	}
}
