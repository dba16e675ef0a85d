package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements of the result store.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type GameResultRow struct {
	SessionID     uuid.UUID
	QuizID        string
	TeamID        sql.NullString
	TotalWon      int32
	QuestionLevel int32
	IsWinner      bool
	Outcome       string
	Actions       pqtype.NullRawMessage
	StartedAt     time.Time
	FinishedAt    time.Time
}

type TeamScoreRow struct {
	TeamID      string
	TotalPoints int64
	GamesPlayed int32
	GamesWon    int32
	BestLevel   int32
	UpdatedAt   time.Time
}

const insertGameResult = `
INSERT INTO game_results (
    session_id, quiz_id, team_id, total_won, question_level,
    is_winner, outcome, actions, started_at, finished_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (session_id) DO NOTHING
`

// InsertGameResult returns false when the session was already stored.
func (q *Queries) InsertGameResult(ctx context.Context, arg GameResultRow) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertGameResult,
		arg.SessionID, arg.QuizID, arg.TeamID, arg.TotalWon, arg.QuestionLevel,
		arg.IsWinner, arg.Outcome, arg.Actions, arg.StartedAt, arg.FinishedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

const upsertTeamScore = `
INSERT INTO team_scores (team_id, total_points, games_played, games_won, best_level, updated_at)
VALUES ($1, $2, 1, $3, $4, $5)
ON CONFLICT (team_id) DO UPDATE SET
    total_points = team_scores.total_points + EXCLUDED.total_points,
    games_played = team_scores.games_played + 1,
    games_won    = team_scores.games_won + EXCLUDED.games_won,
    best_level   = GREATEST(team_scores.best_level, EXCLUDED.best_level),
    updated_at   = EXCLUDED.updated_at
RETURNING team_id, total_points, games_played, games_won, best_level, updated_at
`

type UpsertTeamScoreParams struct {
	TeamID    string
	Points    int64
	Won       int32
	Level     int32
	UpdatedAt time.Time
}

func (q *Queries) UpsertTeamScore(ctx context.Context, arg UpsertTeamScoreParams) (TeamScoreRow, error) {
	row := q.db.QueryRowContext(ctx, upsertTeamScore, arg.TeamID, arg.Points, arg.Won, arg.Level, arg.UpdatedAt)
	var i TeamScoreRow
	err := row.Scan(&i.TeamID, &i.TotalPoints, &i.GamesPlayed, &i.GamesWon, &i.BestLevel, &i.UpdatedAt)
	return i, err
}

const getTeamScore = `
SELECT team_id, total_points, games_played, games_won, best_level, updated_at
FROM team_scores WHERE team_id = $1
`

func (q *Queries) GetTeamScore(ctx context.Context, teamID string) (TeamScoreRow, error) {
	row := q.db.QueryRowContext(ctx, getTeamScore, teamID)
	var i TeamScoreRow
	err := row.Scan(&i.TeamID, &i.TotalPoints, &i.GamesPlayed, &i.GamesWon, &i.BestLevel, &i.UpdatedAt)
	return i, err
}

const listTopTeams = `
SELECT team_id, total_points, games_played, games_won, best_level, updated_at
FROM team_scores ORDER BY total_points DESC, team_id LIMIT $1
`

func (q *Queries) ListTopTeams(ctx context.Context, limit int32) ([]TeamScoreRow, error) {
	rows, err := q.db.QueryContext(ctx, listTopTeams, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamScoreRow
	for rows.Next() {
		var i TeamScoreRow
		if err := rows.Scan(&i.TeamID, &i.TotalPoints, &i.GamesPlayed, &i.GamesWon, &i.BestLevel, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listTeamResults = `
SELECT session_id, quiz_id, team_id, total_won, question_level,
       is_winner, outcome, actions, started_at, finished_at
FROM game_results WHERE team_id = $1
ORDER BY finished_at DESC LIMIT $2
`

type ListTeamResultsParams struct {
	TeamID string
	Limit  int32
}

func (q *Queries) ListTeamResults(ctx context.Context, arg ListTeamResultsParams) ([]GameResultRow, error) {
	rows, err := q.db.QueryContext(ctx, listTeamResults, arg.TeamID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GameResultRow
	for rows.Next() {
		var i GameResultRow
		if err := rows.Scan(
			&i.SessionID, &i.QuizID, &i.TeamID, &i.TotalWon, &i.QuestionLevel,
			&i.IsWinner, &i.Outcome, &i.Actions, &i.StartedAt, &i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
