// Package leaderboard mirrors team totals into Redis sorted sets for fast rankings.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/config"
	"github.com/mcdev12/quizshow/go/internal/models"
)

var ErrNotRanked = errors.New("team is not on the leaderboard")

const dedupeTTL = 24 * time.Hour

// Entry is one ranked team.
type Entry struct {
	Rank   int64  `json:"rank"` // 1-based
	TeamID string `json:"team_id"`
	Points int64  `json:"points"`
}

// NewClientFromEnv builds a Redis client from REDIS_ADDR, REDIS_PWD and REDIS_DB.
func NewClientFromEnv() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: config.GetEnv("REDIS_PWD", ""),
		DB:       config.GetEnvAsInt("REDIS_DB", 0),
	})
}

// Leaderboard ranks teams by accumulated points and by best single game per quiz.
type Leaderboard struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *Leaderboard {
	if prefix == "" {
		prefix = "quizshow"
	}
	return &Leaderboard{client: client, prefix: prefix}
}

func (l *Leaderboard) totalsKey() string { return l.prefix + ":leaderboard:points" }

func (l *Leaderboard) bestKey(quizID string) string {
	return fmt.Sprintf("%s:leaderboard:quiz:%s:best", l.prefix, quizID)
}

func (l *Leaderboard) seenKey(sessionID string) string {
	return fmt.Sprintf("%s:leaderboard:seen:%s", l.prefix, sessionID)
}

// SaveResult implements results.Sink. Anonymous results are ignored and each session
// is counted once.
func (l *Leaderboard) SaveResult(ctx context.Context, r models.GameResult) error {
	if r.TeamID == "" {
		return nil
	}
	fresh, err := l.client.SetNX(ctx, l.seenKey(r.SessionID.String()), 1, dedupeTTL).Result()
	if err != nil {
		return fmt.Errorf("leaderboard dedupe: %w", err)
	}
	if !fresh {
		log.Debug().Str("session_id", r.SessionID.String()).Msg("leaderboard already counted session")
		return nil
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, l.totalsKey(), float64(r.TotalWon), r.TeamID)
		if r.QuizID != "" {
			pipe.ZAddGT(ctx, l.bestKey(r.QuizID), redis.Z{Score: float64(r.TotalWon), Member: r.TeamID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("leaderboard update: %w", err)
	}
	return nil
}

// Top returns the n teams with the most accumulated points.
func (l *Leaderboard) Top(ctx context.Context, n int64) ([]Entry, error) {
	return l.top(ctx, l.totalsKey(), n)
}

// TopForQuiz returns the n best single games of a quiz.
func (l *Leaderboard) TopForQuiz(ctx context.Context, quizID string, n int64) ([]Entry, error) {
	return l.top(ctx, l.bestKey(quizID), n)
}

func (l *Leaderboard) top(ctx context.Context, key string, n int64) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard %s: %w", key, err)
	}
	return toEntries(zs), nil
}

// Rank returns a team's position on the accumulated points board.
func (l *Leaderboard) Rank(ctx context.Context, teamID string) (Entry, error) {
	rank, err := l.client.ZRevRank(ctx, l.totalsKey(), teamID).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("%s: %w", teamID, ErrNotRanked)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("rank %s: %w", teamID, err)
	}
	score, err := l.client.ZScore(ctx, l.totalsKey(), teamID).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("score %s: %w", teamID, err)
	}
	return Entry{Rank: rank + 1, TeamID: teamID, Points: int64(score)}, nil
}

func toEntries(zs []redis.Z) []Entry {
	out := make([]Entry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, Entry{Rank: int64(i + 1), TeamID: member, Points: int64(z.Score)})
	}
	return out
}
