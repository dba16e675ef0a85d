package leaderboard

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcdev12/quizshow/go/internal/models"
)

func TestToEntriesRanksInOrder(t *testing.T) {
	got := toEntries([]redis.Z{
		{Score: 12300, Member: "owls"},
		{Score: 1000, Member: "foxes"},
	})
	want := []Entry{
		{Rank: 1, TeamID: "owls", Points: 12300},
		{Rank: 2, TeamID: "foxes", Points: 1000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries (-want +got):\n%s", diff)
	}
}

func TestKeysAreNamespaced(t *testing.T) {
	l := New(nil, "")
	if got := l.totalsKey(); got != "quizshow:leaderboard:points" {
		t.Errorf("totals key = %q", got)
	}
	if got := l.bestKey("friday"); got != "quizshow:leaderboard:quiz:friday:best" {
		t.Errorf("best key = %q", got)
	}
}

// TestLeaderboardAgainstRedis needs a Redis at REDIS_ADDR; it uses a unique prefix and
// removes its keys afterwards.
func TestLeaderboardAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	l := New(client, "quizshow-test-"+uuid.NewString())
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), l.prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	})

	owlsWin := models.GameResult{SessionID: uuid.New(), QuizID: "friday", TeamID: "owls", TotalWon: 12000}
	for _, r := range []models.GameResult{
		owlsWin,
		owlsWin, // counted once
		{SessionID: uuid.New(), QuizID: "friday", TeamID: "owls", TotalWon: 300},
		{SessionID: uuid.New(), QuizID: "friday", TeamID: "foxes", TotalWon: 1000},
		{SessionID: uuid.New(), QuizID: "friday", TotalWon: 99999},
	} {
		if err := l.SaveResult(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	top, err := l.Top(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{Rank: 1, TeamID: "owls", Points: 12300}, {Rank: 2, TeamID: "foxes", Points: 1000}}
	if diff := cmp.Diff(want, top); diff != "" {
		t.Fatalf("top (-want +got):\n%s", diff)
	}

	best, err := l.TopForQuiz(ctx, "friday", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 1 || best[0].Points != 12000 {
		t.Fatalf("best = %+v", best)
	}

	if _, err := l.Rank(ctx, "hedgehogs"); !errors.Is(err, ErrNotRanked) {
		t.Fatalf("rank of unknown team: %v", err)
	}
	if e, err := l.Rank(ctx, "foxes"); err != nil || e.Rank != 2 {
		t.Fatalf("rank foxes = %+v, %v", e, err)
	}
}
