package questionbank

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/quizshow/go/internal/models"
)

// Runs against a real database when QUESTIONBANK_TEST_DSN is set.
func TestPgxRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("QUESTIONBANK_TEST_DSN")
	if dsn == "" {
		t.Skip("QUESTIONBANK_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	repo := NewPgxRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	quiz := models.QuizConfig{
		ID:                "test-" + uuid.NewString(),
		Title:             "Round trip",
		NumberOfQuestions: 2,
		QuestionConfig:    []models.QuestionConfig{{QuestionNumber: 2, Points: 500, TimeLimit: 20}},
		SelectedLifelines: []models.LifelineID{models.LifelineAskExpert},
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM quizzes WHERE id = $1`, quiz.ID)
	})
	if err := repo.UpsertQuiz(ctx, quiz); err != nil {
		t.Fatal(err)
	}

	questions := []models.Question{
		{ID: "a", Text: "First?", Options: []string{"x", "y"}, CorrectOptionIndex: 1, Value: 100, Difficulty: models.DifficultyEasy},
		{ID: "b", Text: "Second?", Options: []string{"p", "q", "r"}, CorrectOptionIndex: 2, Value: 200, Category: "misc"},
	}
	for i, q := range questions {
		inserted, err := repo.UpsertQuestion(ctx, quiz.ID, i, q)
		if err != nil {
			t.Fatal(err)
		}
		if !inserted {
			t.Errorf("question %s reported as updated on first insert", q.ID)
		}
	}
	if inserted, err := repo.UpsertQuestion(ctx, quiz.ID, 0, questions[0]); err != nil || inserted {
		t.Errorf("second upsert: inserted=%v err=%v", inserted, err)
	}

	got, err := repo.LoadQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Quiz{Config: quiz, Questions: questions}, got); diff != "" {
		t.Errorf("quiz mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.LoadQuiz(ctx, "missing-"+uuid.NewString()); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("missing quiz error = %v", err)
	}
}

func TestLifelinesToStrings(t *testing.T) {
	got := lifelinesToStrings([]models.LifelineID{models.LifelineFiftyFifty, models.LifelineRollDice})
	if diff := cmp.Diff([]string{"fifty_fifty", "roll_dice"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
