package session

import (
	"sort"

	"github.com/mcdev12/quizshow/go/internal/models"
)

// Rand drives option shuffling. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// prepareQuestions orders questions by value, fits them to the ladder, applies the
// per-position points and shuffles every question's options. The input is not modified.
func prepareQuestions(in []models.Question, quiz models.QuizConfig, r Rand) ([]models.Question, models.Ladder) {
	qs := make([]models.Question, len(in))
	for i, q := range in {
		qs[i] = q.Clone()
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Value < qs[j].Value })

	n := quiz.NumberOfQuestions
	if n <= 0 || n > len(qs) {
		n = len(qs)
	}
	qs = qs[:n]

	ladder := models.BuildLadder(quiz, n)
	for i := range qs {
		if ladder[i].Points >= 0 {
			qs[i].Value = ladder[i].Points
		}
		shuffleOptions(&qs[i], r)
	}
	return qs, ladder
}

// shuffleOptions permutes the options and re-points the correct index at the same text.
func shuffleOptions(q *models.Question, r Rand) {
	for i := len(q.Options) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
		switch q.CorrectOptionIndex {
		case i:
			q.CorrectOptionIndex = j
		case j:
			q.CorrectOptionIndex = i
		}
	}
}
