package questionbank

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/quizshow/go/internal/models"
)

//go:embed schema.sql
var schema string

// PgxRepository stores quizzes and questions in Postgres.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

// EnsureSchema creates the question bank tables if they are missing.
func (r *PgxRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply question bank schema: %w", err)
	}
	return nil
}

// UpsertQuiz inserts the quiz or replaces its configuration.
func (r *PgxRepository) UpsertQuiz(ctx context.Context, quiz models.QuizConfig) error {
	cfg, err := json.Marshal(quiz.QuestionConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal question config: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO quizzes (id, title, number_of_questions, question_config, lifelines, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
		  title = EXCLUDED.title,
		  number_of_questions = EXCLUDED.number_of_questions,
		  question_config = EXCLUDED.question_config,
		  lifelines = EXCLUDED.lifelines,
		  updated_at = now()
	`, quiz.ID, quiz.Title, quiz.NumberOfQuestions, cfg, lifelinesToStrings(quiz.SelectedLifelines))
	if err != nil {
		return fmt.Errorf("failed to upsert quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// UpsertQuestion stores q at position in the quiz's pool. It reports whether the
// question was new.
func (r *PgxRepository) UpsertQuestion(ctx context.Context, quizID string, position int, q models.Question) (bool, error) {
	// xmax is zero only for freshly inserted rows.
	var inserted bool
	err := r.pool.QueryRow(ctx, `
		INSERT INTO questions (
		  id, quiz_id, position, text, options, correct_option_index,
		  value, category, difficulty, explanation
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (quiz_id, id) DO UPDATE SET
		  position = EXCLUDED.position,
		  text = EXCLUDED.text,
		  options = EXCLUDED.options,
		  correct_option_index = EXCLUDED.correct_option_index,
		  value = EXCLUDED.value,
		  category = EXCLUDED.category,
		  difficulty = EXCLUDED.difficulty,
		  explanation = EXCLUDED.explanation
		RETURNING (xmax = 0)
	`,
		q.ID, quizID, position, q.Text, q.Options, q.CorrectOptionIndex,
		q.Value, q.Category, string(q.Difficulty), q.Explanation,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert question %s: %w", q.ID, err)
	}
	return inserted, nil
}

// LoadQuiz implements Source.
func (r *PgxRepository) LoadQuiz(ctx context.Context, quizID string) (*Quiz, error) {
	var (
		quiz      = models.QuizConfig{ID: quizID}
		cfg       []byte
		lifelines []string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT title, number_of_questions, question_config, lifelines
		FROM quizzes WHERE id = $1
	`, quizID).Scan(&quiz.Title, &quiz.NumberOfQuestions, &cfg, &lifelines)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz %s: %w", quizID, err)
	}
	if err := json.Unmarshal(cfg, &quiz.QuestionConfig); err != nil {
		return nil, fmt.Errorf("quiz %s: bad question config: %w", quizID, err)
	}
	for _, l := range lifelines {
		quiz.SelectedLifelines = append(quiz.SelectedLifelines, models.LifelineID(l))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, text, options, correct_option_index, value, category, difficulty, explanation
		FROM questions WHERE quiz_id = $1
		ORDER BY position, id
	`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions for %s: %w", quizID, err)
	}
	questions, err := pgx.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions for %s: %w", quizID, err)
	}
	return &Quiz{Config: quiz, Questions: questions}, nil
}

func scanQuestion(row pgx.CollectableRow) (models.Question, error) {
	var (
		q          models.Question
		difficulty string
	)
	err := row.Scan(&q.ID, &q.Text, &q.Options, &q.CorrectOptionIndex, &q.Value, &q.Category, &difficulty, &q.Explanation)
	q.Difficulty = models.Difficulty(difficulty)
	return q, err
}

func lifelinesToStrings(ids []models.LifelineID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
