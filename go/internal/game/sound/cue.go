package sound

import (
	"fmt"
	"path/filepath"
)

// Name identifies one of the fixed audio cues.
type Name string

const (
	CueStart    Name = "start"
	CueAmbience Name = "ambience"
	CueLockIn   Name = "lock_in"
	CueSuspense Name = "suspense"
	CueCorrect  Name = "correct"
	CueWrong    Name = "wrong"
	CueLifeline Name = "lifeline"
	CueVictory  Name = "victory"
)

// Names lists every cue. Bulk stops walk it in this order.
var Names = []Name{
	CueStart,
	CueAmbience,
	CueLockIn,
	CueSuspense,
	CueCorrect,
	CueWrong,
	CueLifeline,
	CueVictory,
}

// Policy decides what happens to an active cue when another cue starts.
type Policy int

const (
	// Interruptible cues stop whenever any other cue starts.
	Interruptible Policy = iota
	// Persistent cues survive other cues and stop only when forced.
	Persistent
)

func (p Policy) String() string {
	switch p {
	case Interruptible:
		return "interruptible"
	case Persistent:
		return "persistent"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Cue is a playable audio asset with its interrupt policy.
type Cue struct {
	Name   Name    `json:"name" yaml:"name"`
	Path   string  `json:"path" yaml:"path"`
	Policy Policy  `json:"-" yaml:"-"`
	Loop   bool    `json:"loop" yaml:"loop"`
	Volume float64 `json:"volume" yaml:"volume"` // linear gain, 1 = unchanged
}

// Registry maps cue names to assets.
type Registry map[Name]Cue

// DefaultRegistry points every cue at <dir>/<name>.wav. Ambience is a persistent loop.
func DefaultRegistry(dir string) Registry {
	reg := make(Registry, len(Names))
	for _, n := range Names {
		reg[n] = Cue{
			Name:   n,
			Path:   filepath.Join(dir, string(n)+".wav"),
			Policy: Interruptible,
			Volume: 1,
		}
	}
	amb := reg[CueAmbience]
	amb.Policy = Persistent
	amb.Loop = true
	reg[CueAmbience] = amb
	return reg
}

// Validate checks that every fixed cue has an asset.
func (r Registry) Validate() error {
	for _, n := range Names {
		c, ok := r[n]
		if !ok {
			return fmt.Errorf("cue %q is not registered", n)
		}
		if c.Path == "" {
			return fmt.Errorf("cue %q has no asset path", n)
		}
		if c.Volume < 0 {
			return fmt.Errorf("cue %q has negative volume", n)
		}
	}
	return nil
}
