package sound

// CueAction is what a remote client should do with a cue.
type CueAction string

const (
	ActionPlay   CueAction = "play"
	ActionStop   CueAction = "stop"
	ActionVolume CueAction = "volume"
)

// CueEvent instructs a remote client, typically a browser, to play or stop a cue.
type CueEvent struct {
	Action CueAction `json:"action"`
	Name   Name      `json:"name"`
	Path   string    `json:"path,omitempty"`
	Loop   bool      `json:"loop,omitempty"`
	Volume float64   `json:"volume,omitempty"`
}

// EventPlayer forwards playback commands to emit instead of a speaker. It cannot
// observe remote playback, so cues end only when stopped.
type EventPlayer struct {
	emit func(CueEvent)
}

// NewEventPlayer creates a player that reports every command to emit. emit runs with
// the sequencer's lock held and must not block or call back into it.
func NewEventPlayer(emit func(CueEvent)) *EventPlayer {
	return &EventPlayer{emit: emit}
}

func (p *EventPlayer) Play(cue Cue, _ func()) error {
	p.emit(CueEvent{Action: ActionPlay, Name: cue.Name, Path: cue.Path, Loop: cue.Loop, Volume: cue.Volume})
	return nil
}

func (p *EventPlayer) Stop(name Name) {
	p.emit(CueEvent{Action: ActionStop, Name: name})
}

func (p *EventPlayer) SetVolume(name Name, volume float64) {
	p.emit(CueEvent{Action: ActionVolume, Name: name, Volume: volume})
}

func (p *EventPlayer) Close() error { return nil }
