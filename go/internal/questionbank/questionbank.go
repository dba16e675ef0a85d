package questionbank

import (
	"context"
	"errors"

	"github.com/mcdev12/quizshow/go/internal/models"
)

var ErrQuizNotFound = errors.New("quiz not found")

// Quiz is a quiz configuration together with its question pool.
type Quiz struct {
	Config    models.QuizConfig
	Questions []models.Question
}

// Source loads quizzes by id.
type Source interface {
	LoadQuiz(ctx context.Context, quizID string) (*Quiz, error)
}
