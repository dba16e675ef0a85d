package sound

// Player is the audio backend the sequencer drives.
//
// Play starts a cue and calls ended once if that playback finishes on its own; a playback
// stopped through Stop never reports. ended must not be called synchronously from Play or
// Stop. Implementations should not block.
type Player interface {
	Play(cue Cue, ended func()) error
	Stop(name Name)
	SetVolume(name Name, volume float64)
	Close() error
}

// NopPlayer plays nothing. It is used when no audio device is available.
type NopPlayer struct{}

func (NopPlayer) Play(Cue, func()) error { return nil }
func (NopPlayer) Stop(Name) {}
func (NopPlayer) SetVolume(Name, float64) {}
func (NopPlayer) Close() error { return nil }
