package lifeline

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcdev12/quizshow/go/internal/models"
)

func question(options int, correct int) models.Question {
	q := models.Question{ID: "q1", Text: "Pick one", CorrectOptionIndex: correct, Value: 100}
	for i := 0; i < options; i++ {
		q.Options = append(q.Options, string(rune('A'+i)))
	}
	return q
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// scripted replays fixed values so individual branches can be pinned.
type scripted struct {
	ints   []int
	floats []float64
}

func (s *scripted) IntN(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func TestFiftyFiftyLeavesCorrectAndOneWrong(t *testing.T) {
	r := seeded(1)
	for i := 0; i < 2000; i++ {
		correct := r.IntN(4)
		q := question(4, correct)
		hidden := FiftyFifty(q, r)
		if len(hidden) != 2 {
			t.Fatalf("hid %d options, want 2", len(hidden))
		}
		if hidden[0] == hidden[1] {
			t.Fatalf("hidden indices not distinct: %v", hidden)
		}
		for _, h := range hidden {
			if h == correct {
				t.Fatalf("hid the correct option %d", h)
			}
		}
	}
}

func TestFiftyFiftyIsUniformOverWrongPairs(t *testing.T) {
	r := seeded(2)
	q := question(4, 0)
	counts := map[[2]int]int{}
	const runs = 6000
	for i := 0; i < runs; i++ {
		h := FiftyFifty(q, r)
		counts[[2]int{h[0], h[1]}]++
	}
	if len(counts) != 3 {
		t.Fatalf("saw %d distinct pairs, want 3: %v", len(counts), counts)
	}
	for pair, n := range counts {
		if n < runs/3-300 || n > runs/3+300 {
			t.Errorf("pair %v drawn %d times out of %d", pair, n, runs)
		}
	}
}

func TestFiftyFiftySmallQuestions(t *testing.T) {
	r := seeded(3)
	if got := FiftyFifty(question(2, 1), r); len(got) != 0 {
		t.Fatalf("two options: hid %v, want nothing", got)
	}
	got := FiftyFifty(question(3, 2), r)
	if len(got) != 1 || got[0] == 2 {
		t.Fatalf("three options: hid %v, want one wrong option", got)
	}
}

func TestAudiencePollShape(t *testing.T) {
	r := seeded(4)
	for i := 0; i < 5000; i++ {
		n := 2 + r.IntN(5)
		correct := r.IntN(n)
		poll, err := AudiencePoll(question(n, correct), r)
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		if len(poll) != n {
			t.Fatalf("poll has %d entries, want %d", len(poll), n)
		}
		sum := 0
		for _, p := range poll {
			if p < 0 {
				t.Fatalf("negative share in %v", poll)
			}
			sum += p
		}
		if sum != 100 {
			t.Fatalf("poll %v sums to %d", poll, sum)
		}
		if poll[correct] < 45 || poll[correct] > 75 {
			t.Fatalf("correct share %d outside [45,75]", poll[correct])
		}
	}
}

func TestAudiencePollZeroWeightsSplitEvenly(t *testing.T) {
	r := &scripted{ints: []int{10}, floats: []float64{0, 0, 0}}
	poll, err := AudiencePoll(question(4, 1), r)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	// correct = 45+10 = 55; the other 45 split evenly.
	if diff := cmp.Diff([]int{15, 55, 15, 15}, poll); diff != "" {
		t.Fatalf("poll mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckPollRejectsBadShares(t *testing.T) {
	cases := map[string][]int{
		"negative":     {80, 30, -10},
		"short":        {50, 40, 5},
		"correct high": {90, 5, 5},
	}
	for name, poll := range cases {
		t.Run(name, func(t *testing.T) {
			if err := checkPoll(poll, 0); !errors.Is(err, ErrInvalidPoll) {
				t.Fatalf("checkPoll(%v) = %v, want ErrInvalidPoll", poll, err)
			}
		})
	}
}

func TestAskExpert(t *testing.T) {
	q := question(4, 2)

	right := AskExpert(q, &scripted{floats: []float64{0.79}})
	if !right.Correct || right.OptionIndex != 2 || right.OptionText != "C" {
		t.Fatalf("confident branch gave %+v", right)
	}

	wrong := AskExpert(q, &scripted{floats: []float64{0.8}, ints: []int{2}})
	if wrong.Correct || wrong.OptionIndex != 3 {
		t.Fatalf("wrong branch gave %+v", wrong)
	}
	if wrong.Advice == "" {
		t.Fatal("advice text is empty")
	}
}

func TestAskExpertAccuracyIsAboutEightyPercent(t *testing.T) {
	r := seeded(5)
	q := question(4, 0)
	correct := 0
	const runs = 10000
	for i := 0; i < runs; i++ {
		if AskExpert(q, r).Correct {
			correct++
		}
	}
	if correct < 7700 || correct > 8300 {
		t.Fatalf("expert correct %d/%d times", correct, runs)
	}
}

func TestRollDiceDisclosure(t *testing.T) {
	q := question(4, 3)
	for face := 1; face <= 6; face++ {
		roll := RollDice(q, &scripted{ints: []int{face - 1}})
		if roll.Roll != face {
			t.Fatalf("roll = %d, want %d", roll.Roll, face)
		}
		reveals := face >= 5
		if roll.Revealed != reveals {
			t.Fatalf("face %d revealed = %v, want %v", face, roll.Revealed, reveals)
		}
		if reveals && roll.RevealedText != "D" {
			t.Fatalf("face %d revealed %q, want %q", face, roll.RevealedText, "D")
		}
		if !reveals && roll.RevealedText != "" {
			t.Fatalf("face %d leaked %q", face, roll.RevealedText)
		}
	}
}

func TestEngineUse(t *testing.T) {
	e := NewEngine(seeded(6))
	q := question(4, 1)

	for _, id := range models.AllLifelines {
		out, err := e.Use(id, q)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if out.Lifeline != id {
			t.Fatalf("outcome lifeline = %s, want %s", out.Lifeline, id)
		}
	}

	if _, err := e.Use("phone_a_friend", q); !errors.Is(err, ErrUnknownLifeline) {
		t.Fatalf("unknown lifeline err = %v", err)
	}
	if _, err := e.Use(models.LifelineFiftyFifty, question(1, 0)); !errors.Is(err, ErrNotEnoughOptions) {
		t.Fatalf("single option err = %v", err)
	}
}
