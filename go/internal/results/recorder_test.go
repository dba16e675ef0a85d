package results

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/models"
)

type countingSink struct {
	calls int
	err   error
}

func (c *countingSink) SaveResult(context.Context, models.GameResult) error {
	c.calls++
	return c.err
}

func TestRecorderFansOut(t *testing.T) {
	errDown := errors.New("down")
	primary := &countingSink{}
	broken := &countingSink{err: errDown}
	healthy := &countingSink{}

	r := NewRecorder(
		Named{Name: "postgres", Sink: primary},
		Named{Name: "leaderboard", Sink: broken},
		Named{Name: "nil", Sink: nil},
		Named{Name: "announce", Sink: healthy},
	)
	result := models.GameResult{SessionID: uuid.New(), TotalWon: 300}

	if err := r.SaveResult(context.Background(), result); err != nil {
		t.Fatalf("secondary failures must not surface, got %v", err)
	}
	if primary.calls != 1 || broken.calls != 1 || healthy.calls != 1 {
		t.Fatalf("calls = %d %d %d", primary.calls, broken.calls, healthy.calls)
	}
	if diff := cmp.Diff([]string{"postgres", "leaderboard", "announce"}, r.Sinks()); diff != "" {
		t.Fatalf("sinks (-want +got):\n%s", diff)
	}
}

func TestRecorderReturnsPrimaryError(t *testing.T) {
	errDown := errors.New("down")
	secondary := &countingSink{}
	r := NewRecorder(Named{Name: "postgres", Sink: &countingSink{err: errDown}}, Named{Name: "duckdb", Sink: secondary})

	err := r.SaveResult(context.Background(), models.GameResult{})
	if !errors.Is(err, errDown) {
		t.Fatalf("err = %v, want it to wrap the primary failure", err)
	}
	if secondary.calls != 1 {
		t.Fatal("secondary sinks still run when the primary fails")
	}
}

func TestRecorderWithoutPrimary(t *testing.T) {
	var got models.GameResult
	r := NewRecorder(Named{}, Named{Name: "func", Sink: SinkFunc(func(_ context.Context, res models.GameResult) error {
		got = res
		return nil
	})})
	want := models.GameResult{TeamID: "team-1", IsWinner: true}
	if err := r.SaveResult(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("forwarded (-want +got):\n%s", diff)
	}
}
