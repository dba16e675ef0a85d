package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/models"
	"github.com/mcdev12/quizshow/go/internal/results"
	"github.com/mcdev12/quizshow/go/internal/sqlutil"
)

//go:embed schema.sql
var schemaDDL string

var ErrTeamNotFound = errors.New("team has no recorded games")

// Store keeps game results and per-team running totals in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return database, nil
}

// Migrate creates the result tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply result schema: %w", err)
	}
	return nil
}

// SaveResult stores the result and folds it into the team's totals in one transaction.
// Saving the same session twice is a no-op.
func (s *Store) SaveResult(ctx context.Context, result models.GameResult) error {
	row, err := resultToRow(result)
	if err != nil {
		return err
	}

	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) *Queries { return New(tx) }, func(q *Queries) error {
		inserted, err := q.InsertGameResult(ctx, row)
		if err != nil {
			return fmt.Errorf("failed to insert game result: %w", err)
		}
		if !inserted {
			log.Debug().Str("session_id", result.SessionID.String()).Msg("game result already stored")
			return nil
		}
		if result.TeamID == "" {
			return nil
		}

		won := int32(0)
		if result.IsWinner {
			won = 1
		}
		score, err := q.UpsertTeamScore(ctx, UpsertTeamScoreParams{
			TeamID:    result.TeamID,
			Points:    int64(result.TotalWon),
			Won:       won,
			Level:     int32(result.QuestionLevel),
			UpdatedAt: result.FinishedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to update team score: %w", err)
		}
		log.Info().
			Str("team_id", score.TeamID).
			Int64("total_points", score.TotalPoints).
			Int32("games_played", score.GamesPlayed).
			Msg("team score updated")
		return nil
	})
}

// TeamStanding returns a team's running totals.
func (s *Store) TeamStanding(ctx context.Context, teamID string) (results.TeamStanding, error) {
	row, err := New(s.db).GetTeamScore(ctx, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return results.TeamStanding{}, fmt.Errorf("%s: %w", teamID, ErrTeamNotFound)
	}
	if err != nil {
		return results.TeamStanding{}, fmt.Errorf("failed to get team score: %w", err)
	}
	return rowToStanding(row), nil
}

// TopTeams returns the highest scoring teams.
func (s *Store) TopTeams(ctx context.Context, limit int) ([]results.TeamStanding, error) {
	rows, err := New(s.db).ListTopTeams(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list top teams: %w", err)
	}
	out := make([]results.TeamStanding, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToStanding(r))
	}
	return out, nil
}

// RecentResults returns a team's latest results, newest first.
func (s *Store) RecentResults(ctx context.Context, teamID string, limit int) ([]models.GameResult, error) {
	rows, err := New(s.db).ListTeamResults(ctx, ListTeamResultsParams{TeamID: teamID, Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("failed to list team results: %w", err)
	}
	out := make([]models.GameResult, 0, len(rows))
	for _, r := range rows {
		res, err := rowToResult(r)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func resultToRow(r models.GameResult) (GameResultRow, error) {
	actions, err := sqlutil.ToNullRawMessage(r.Actions)
	if err != nil {
		return GameResultRow{}, fmt.Errorf("failed to encode actions: %w", err)
	}
	return GameResultRow{
		SessionID:     r.SessionID,
		QuizID:        r.QuizID,
		TeamID:        sqlutil.ToSqlString(r.TeamID),
		TotalWon:      int32(r.TotalWon),
		QuestionLevel: int32(r.QuestionLevel),
		IsWinner:      r.IsWinner,
		Outcome:       string(r.Outcome),
		Actions:       actions,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}, nil
}

func rowToResult(row GameResultRow) (models.GameResult, error) {
	r := models.GameResult{
		SessionID:     row.SessionID,
		QuizID:        row.QuizID,
		TeamID:        sqlutil.FromSqlString(row.TeamID, ""),
		TotalWon:      int(row.TotalWon),
		QuestionLevel: int(row.QuestionLevel),
		IsWinner:      row.IsWinner,
		Outcome:       models.Outcome(row.Outcome),
		StartedAt:     row.StartedAt,
		FinishedAt:    row.FinishedAt,
	}
	if err := sqlutil.FromNullRawMessage(row.Actions, &r.Actions); err != nil {
		return models.GameResult{}, fmt.Errorf("failed to decode actions of %s: %w", row.SessionID, err)
	}
	return r, nil
}

func rowToStanding(row TeamScoreRow) results.TeamStanding {
	return results.TeamStanding{
		TeamID:      row.TeamID,
		TotalPoints: row.TotalPoints,
		GamesPlayed: int(row.GamesPlayed),
		GamesWon:    int(row.GamesWon),
		BestLevel:   int(row.BestLevel),
		UpdatedAt:   row.UpdatedAt,
	}
}
