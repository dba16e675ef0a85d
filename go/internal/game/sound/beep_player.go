package sound

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog/log"
)

const (
	outputRate      = beep.SampleRate(44100)
	resampleQuality = 4
)

var ErrAssetUnavailable = errors.New("cue asset unavailable")

type playback struct {
	ctrl *beep.Ctrl
	vol  *effects.Volume
}

// BeepPlayer plays WAV cues on the local speaker through one shared mixer. Assets are
// decoded into memory up front; a cue whose asset failed to load reports
// ErrAssetUnavailable when played.
type BeepPlayer struct {
	rate   beep.SampleRate
	mixer  *beep.Mixer
	lock   func()
	unlock func()
	closer func()

	mu      sync.Mutex
	buffers map[Name]*beep.Buffer
	playing map[Name]*playback
}

// NewBeepPlayer opens the speaker and preloads every cue in reg. Cues that fail to load
// are logged and skipped; only a speaker failure is an error.
func NewBeepPlayer(reg Registry) (*BeepPlayer, error) {
	if err := speaker.Init(outputRate, outputRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	p := newMixerPlayer(outputRate, speaker.Lock, speaker.Unlock, speaker.Close)
	p.load(reg)
	speaker.Play(p.mixer)
	return p, nil
}

func newMixerPlayer(rate beep.SampleRate, lock, unlock, closer func()) *BeepPlayer {
	return &BeepPlayer{
		rate:    rate,
		mixer:   &beep.Mixer{},
		lock:    lock,
		unlock:  unlock,
		closer:  closer,
		buffers: make(map[Name]*beep.Buffer),
		playing: make(map[Name]*playback),
	}
}

func (p *BeepPlayer) load(reg Registry) {
	for _, n := range Names {
		cue, ok := reg[n]
		if !ok {
			continue
		}
		buf, err := loadWAV(cue.Path)
		if err != nil {
			log.Warn().Err(err).Str("cue", string(n)).Str("path", cue.Path).Msg("failed to load cue asset")
			continue
		}
		p.buffers[n] = buf
	}
	log.Info().Int("loaded", len(p.buffers)).Int("registered", len(reg)).Msg("sound assets loaded")
}

func loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

// Play starts cue, replacing a playback of the same cue that is still running.
func (p *BeepPlayer) Play(cue Cue, ended func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf, ok := p.buffers[cue.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetUnavailable, cue.Name)
	}
	p.stopLocked(cue.Name)

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if cue.Loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	if sr := buf.Format().SampleRate; sr != p.rate {
		s = beep.Resample(resampleQuality, sr, p.rate, s)
	}

	vol := &effects.Volume{Streamer: s, Base: 2}
	applyGain(vol, cue.Volume)

	pb := &playback{vol: vol}
	pb.ctrl = &beep.Ctrl{Streamer: beep.Seq(vol, beep.Callback(func() {
		// runs on the speaker goroutine with the speaker locked
		go p.finished(cue.Name, pb, ended)
	}))}
	p.playing[cue.Name] = pb

	p.lock()
	p.mixer.Add(pb.ctrl)
	p.unlock()
	return nil
}

func (p *BeepPlayer) finished(name Name, pb *playback, ended func()) {
	p.mu.Lock()
	current := p.playing[name] == pb
	if current {
		delete(p.playing, name)
	}
	p.mu.Unlock()

	if current && ended != nil {
		ended()
	}
}

// Stop silences a cue. The mixer drops the drained streamer on its next pass.
func (p *BeepPlayer) Stop(name Name) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked(name)
}

func (p *BeepPlayer) stopLocked(name Name) {
	pb, ok := p.playing[name]
	if !ok {
		return
	}
	delete(p.playing, name)
	p.lock()
	pb.ctrl.Streamer = nil
	p.unlock()
}

// SetVolume changes the gain of a running cue.
func (p *BeepPlayer) SetVolume(name Name, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pb, ok := p.playing[name]
	if !ok {
		return
	}
	p.lock()
	applyGain(pb.vol, volume)
	p.unlock()
}

// Close stops all playback and releases the speaker.
func (p *BeepPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for n := range p.playing {
		p.stopLocked(n)
	}
	p.lock()
	p.mixer.Clear()
	p.unlock()
	if p.closer != nil {
		p.closer()
	}
	return nil
}

// applyGain maps a linear volume onto the base-2 volume effect.
func applyGain(v *effects.Volume, linear float64) {
	if linear <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(linear)
}
