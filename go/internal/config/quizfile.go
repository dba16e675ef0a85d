package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/models"
)

var ErrNoQuestions = errors.New("quiz file has no questions")

// CueAsset overrides the default asset of one cue.
type CueAsset struct {
	Path   string   `yaml:"path"`
	Volume *float64 `yaml:"volume"`
	Loop   *bool    `yaml:"loop"`
}

// Assets maps cue names to audio files. Relative paths resolve against the quiz file.
type Assets struct {
	Dir  string                  `yaml:"dir"`
	Cues map[sound.Name]CueAsset `yaml:"cues"`
}

// QuizFile is everything needed to run a quiz from a single YAML document.
type QuizFile struct {
	Quiz      models.QuizConfig `yaml:"quiz"`
	Questions []models.Question `yaml:"questions"`
	Session   session.Config    `yaml:"session"`
	Sound     sound.Config      `yaml:"sound"`
	Assets    Assets            `yaml:"assets"`

	baseDir string
}

// LoadQuizFile reads and validates a quiz file. Engine and sound timings not present in
// the file keep their defaults.
func LoadQuizFile(path string) (*QuizFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz file: %w", err)
	}

	qf, err := ParseQuizFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	qf.baseDir = filepath.Dir(path)
	return qf, nil
}

// ParseQuizFile decodes a quiz file held in memory.
func ParseQuizFile(data []byte) (*QuizFile, error) {
	qf := &QuizFile{
		Session: session.DefaultConfig(),
		Sound:   sound.DefaultConfig(),
		Assets:  Assets{Dir: "assets"},
	}
	if err := yaml.Unmarshal(data, qf); err != nil {
		return nil, fmt.Errorf("failed to parse quiz file: %w", err)
	}
	if err := qf.Validate(); err != nil {
		return nil, err
	}
	return qf, nil
}

// Validate checks the quiz, every question and the cue overrides.
func (qf *QuizFile) Validate() error {
	if len(qf.Questions) == 0 {
		return ErrNoQuestions
	}
	if err := qf.Quiz.Validate(); err != nil {
		return fmt.Errorf("quiz %s: %w", qf.Quiz.ID, err)
	}
	for _, q := range qf.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	for name := range qf.Assets.Cues {
		if !knownCue(name) {
			return fmt.Errorf("assets: unknown cue %q", name)
		}
	}
	return nil
}

// Registry resolves the cue registry for this quiz.
func (qf *QuizFile) Registry() (sound.Registry, error) {
	reg := sound.DefaultRegistry(qf.resolve(qf.Assets.Dir))
	for name, a := range qf.Assets.Cues {
		c := reg[name]
		if a.Path != "" {
			c.Path = qf.resolve(a.Path)
		}
		if a.Volume != nil {
			c.Volume = *a.Volume
		}
		if a.Loop != nil {
			c.Loop = *a.Loop
		}
		reg[name] = c
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return reg, nil
}

func (qf *QuizFile) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || qf.baseDir == "" {
		return p
	}
	return filepath.Join(qf.baseDir, p)
}

func knownCue(n sound.Name) bool {
	for _, known := range sound.Names {
		if n == known {
			return true
		}
	}
	return false
}
