package session

import (
	"math/rand/v2"
	"testing"

	"github.com/mcdev12/quizshow/go/internal/models"
)

func TestPrepareQuestionsSortsTruncatesAndOverrides(t *testing.T) {
	in := buildQuestions(6)
	quiz := models.QuizConfig{
		NumberOfQuestions: 4,
		QuestionConfig: []models.QuestionConfig{
			{QuestionNumber: 2, Points: 1000, TimeLimit: 45},
			{QuestionNumber: 4, Points: 0},
		},
	}

	qs, ladder := prepareQuestions(in, quiz, rand.New(rand.NewPCG(1, 2)))
	if len(qs) != 4 || len(ladder) != 4 {
		t.Fatalf("got %d questions and %d rungs, want 4", len(qs), len(ladder))
	}

	wantIDs := []string{"q01", "q02", "q03", "q04"}
	wantValues := []int{100, 1000, 300, 0}
	for i, q := range qs {
		if q.ID != wantIDs[i] {
			t.Errorf("position %d holds %s, want %s", i, q.ID, wantIDs[i])
		}
		if q.Value != wantValues[i] {
			t.Errorf("position %d worth %d, want %d", i, q.Value, wantValues[i])
		}
	}
	if ladder[1].TimeLimit.Seconds() != 45 {
		t.Errorf("rung 2 time limit = %v, want 45s", ladder[1].TimeLimit)
	}
	if ladder[0].TimeLimit != models.DefaultTimeLimit {
		t.Errorf("rung 1 time limit = %v, want default", ladder[0].TimeLimit)
	}

	if in[0].ID != "q06" || in[0].Options[0] != "Right 6" {
		t.Fatal("prepare must not modify the caller's questions")
	}
}

func TestShuffleKeepsCorrectText(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 43))
	moved := 0
	for i := 0; i < 1000; i++ {
		n := 2 + r.IntN(5)
		q := models.Question{CorrectOptionIndex: r.IntN(n)}
		for j := 0; j < n; j++ {
			q.Options = append(q.Options, string(rune('a'+j)))
		}
		want := q.CorrectText()
		before := q.CorrectOptionIndex

		shuffleOptions(&q, r)
		if got := q.CorrectText(); got != want {
			t.Fatalf("correct text %q became %q", want, got)
		}
		if q.CorrectOptionIndex != before {
			moved++
		}
	}
	if moved == 0 {
		t.Fatal("shuffle never moved the correct option")
	}
}
