package questionbank

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/config"
)

// DirSource serves the quiz files found in a directory, keyed by quiz id. Files are
// read once on first use.
type DirSource struct {
	dir string

	once    sync.Once
	quizzes map[string]*config.QuizFile
	err     error
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) load() {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		s.err = fmt.Errorf("failed to list quiz files: %w", err)
		return
	}
	more, _ := filepath.Glob(filepath.Join(s.dir, "*.yml"))
	paths = append(paths, more...)

	s.quizzes = make(map[string]*config.QuizFile, len(paths))
	for _, p := range paths {
		qf, err := config.LoadQuizFile(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("skipping invalid quiz file")
			continue
		}
		id := qf.Quiz.ID
		if id == "" {
			id = trimExt(filepath.Base(p))
			qf.Quiz.ID = id
		}
		if _, dup := s.quizzes[id]; dup {
			log.Warn().Str("quiz_id", id).Str("path", p).Msg("duplicate quiz id, keeping the first file")
			continue
		}
		s.quizzes[id] = qf
	}
	log.Info().Str("dir", s.dir).Int("quizzes", len(s.quizzes)).Msg("quiz files loaded")
}

// LoadQuiz implements Source.
func (s *DirSource) LoadQuiz(_ context.Context, quizID string) (*Quiz, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}
	qf, ok := s.quizzes[quizID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}
	return &Quiz{Config: qf.Quiz, Questions: qf.Questions}, nil
}

// File returns the parsed quiz file, including its engine and sound settings.
func (s *DirSource) File(quizID string) (*config.QuizFile, bool) {
	s.once.Do(s.load)
	qf, ok := s.quizzes[quizID]
	return qf, ok
}

// IDs lists the available quizzes in sorted order.
func (s *DirSource) IDs() []string {
	s.once.Do(s.load)
	ids := make([]string, 0, len(s.quizzes))
	for id := range s.quizzes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
