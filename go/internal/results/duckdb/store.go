// Package duckdb keeps game results in a local DuckDB file so offline play still has a
// history and standings.
package duckdb

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/models"
	"github.com/mcdev12/quizshow/go/internal/results"
	"github.com/mcdev12/quizshow/go/internal/sqlutil"
)

//go:embed schema.sql
var schemaDDL string

// Store writes results to DuckDB.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema. Use ":memory:"
// or "" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == ":memory:" {
		path = ""
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	s := &Store{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema applies the schema DDL.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("duckdb: db is nil")
	}
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply duckdb schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult implements results.Sink. A session already stored is skipped.
func (s *Store) SaveResult(ctx context.Context, r models.GameResult) error {
	actions, err := sqlutil.ToNullRawMessage(r.Actions)
	if err != nil {
		return fmt.Errorf("encode actions: %w", err)
	}
	var actionsArg, teamArg any
	if actions.Valid {
		actionsArg = string(actions.RawMessage)
	}
	if r.TeamID != "" {
		teamArg = r.TeamID
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO game_results (
          session_id, quiz_id, team_id, total_won, question_level,
          is_winner, outcome, actions, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (session_id) DO NOTHING
    `,
		r.SessionID.String(), r.QuizID, teamArg, r.TotalWon, r.QuestionLevel,
		r.IsWinner, string(r.Outcome), actionsArg, r.StartedAt.UTC(), r.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// Standings returns every team's totals, best first.
func (s *Store) Standings(ctx context.Context) ([]results.TeamStanding, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT team_id, total_points, games_played, games_won, best_level, updated_at
        FROM team_standings
        ORDER BY total_points DESC, team_id
    `)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var out []results.TeamStanding
	for rows.Next() {
		var st results.TeamStanding
		if err := rows.Scan(&st.TeamID, &st.TotalPoints, &st.GamesPlayed, &st.GamesWon, &st.BestLevel, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Recent returns the latest results across all teams, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.GameResult, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT session_id, quiz_id, team_id, total_won, question_level,
               is_winner, outcome, CAST(actions AS VARCHAR), started_at, finished_at
        FROM game_results
        ORDER BY finished_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	defer rows.Close()

	var out []models.GameResult
	for rows.Next() {
		var (
			r       models.GameResult
			id      string
			teamID  sql.NullString
			outcome string
			actions sql.NullString
		)
		if err := rows.Scan(&id, &r.QuizID, &teamID, &r.TotalWon, &r.QuestionLevel,
			&r.IsWinner, &outcome, &actions, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if r.SessionID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse session id %q: %w", id, err)
		}
		r.TeamID = sqlutil.FromSqlString(teamID, "")
		r.Outcome = models.Outcome(outcome)
		if actions.Valid && actions.String != "" {
			if err := json.Unmarshal([]byte(actions.String), &r.Actions); err != nil {
				return nil, fmt.Errorf("decode actions of %s: %w", id, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
