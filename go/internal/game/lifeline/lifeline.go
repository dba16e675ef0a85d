package lifeline

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/mcdev12/quizshow/go/internal/models"
)

// Rand is the random source the lifelines draw from. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

const (
	expertAccuracy = 0.8
	pollMinCorrect = 45
	pollMaxCorrect = 75
	revealingRoll  = 5
)

// ExpertAdvice is the ask-the-expert outcome.
type ExpertAdvice struct {
	OptionIndex int    `json:"option_index"`
	OptionText  string `json:"option_text"`
	Advice      string `json:"advice"`
	Correct     bool   `json:"correct"`
}

// DiceRoll is the roll-the-dice outcome. RevealedText is set only for revealing rolls.
type DiceRoll struct {
	Roll         int    `json:"roll"`
	Revealed     bool   `json:"revealed"`
	RevealedText string `json:"revealed_text,omitempty"`
}

// Outcome is the result of one lifeline use. Exactly one of the variant fields is set,
// matching Lifeline.
type Outcome struct {
	Lifeline models.LifelineID `json:"lifeline"`
	Hidden   []int             `json:"hidden,omitempty"`
	Poll     []int             `json:"poll,omitempty"`
	Expert   *ExpertAdvice     `json:"expert,omitempty"`
	Dice     *DiceRoll         `json:"dice,omitempty"`
}

// FiftyFifty picks the wrong options to hide: two distinct ones chosen uniformly, so the
// correct option and exactly one wrong option stay visible. With fewer than three wrong
// options it hides all but one of them.
func FiftyFifty(q models.Question, r Rand) []int {
	wrong := wrongIndices(q)
	hide := 2
	if len(wrong)-1 < hide {
		hide = len(wrong) - 1
	}
	if hide <= 0 {
		return nil
	}

	// partial Fisher-Yates
	for i := 0; i < hide; i++ {
		j := i + r.IntN(len(wrong)-i)
		wrong[i], wrong[j] = wrong[j], wrong[i]
	}
	hidden := append([]int(nil), wrong[:hide]...)
	sort.Ints(hidden)
	return hidden
}

// AudiencePoll returns one percentage per option. The correct option gets a uniform share
// in [45,75]; the rest is split across the wrong options by random weights, rounded with
// the largest-remainder method so the total is exactly 100.
func AudiencePoll(q models.Question, r Rand) ([]int, error) {
	n := len(q.Options)
	if n < 2 {
		return nil, ErrNotEnoughOptions
	}

	poll := make([]int, n)
	correct := pollMinCorrect + r.IntN(pollMaxCorrect-pollMinCorrect+1)
	poll[q.CorrectOptionIndex] = correct

	wrong := wrongIndices(q)
	for i, share := range partition(100-correct, len(wrong), r) {
		poll[wrong[i]] = share
	}

	if err := checkPoll(poll, q.CorrectOptionIndex); err != nil {
		return nil, err
	}
	return poll, nil
}

// partition splits total into k non-negative integers proportional to random weights.
func partition(total, k int, r Rand) []int {
	weights := make([]float64, k)
	var sum float64
	for i := range weights {
		weights[i] = r.Float64()
		sum += weights[i]
	}
	if sum == 0 {
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(k)
	}

	shares := make([]int, k)
	fracs := make([]float64, k)
	assigned := 0
	for i, w := range weights {
		exact := float64(total) * w / sum
		shares[i] = int(exact)
		fracs[i] = exact - float64(shares[i])
		assigned += shares[i]
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return fracs[order[a]] > fracs[order[b]] })
	for i := 0; assigned < total; i++ {
		shares[order[i%k]]++
		assigned++
	}
	return shares
}

func checkPoll(poll []int, correctIdx int) error {
	sum := 0
	for i, p := range poll {
		if p < 0 {
			return fmt.Errorf("%w: option %d has %d%%", ErrInvalidPoll, i, p)
		}
		sum += p
	}
	if sum != 100 {
		return fmt.Errorf("%w: shares sum to %d", ErrInvalidPoll, sum)
	}
	if c := poll[correctIdx]; c < pollMinCorrect || c > pollMaxCorrect {
		return fmt.Errorf("%w: correct share %d outside [%d,%d]", ErrInvalidPoll, c, pollMinCorrect, pollMaxCorrect)
	}
	return nil
}

// AskExpert returns the correct option with probability 0.8, otherwise a uniformly chosen
// wrong one. Either way the advice reads as confident.
func AskExpert(q models.Question, r Rand) ExpertAdvice {
	idx := q.CorrectOptionIndex
	if r.Float64() >= expertAccuracy {
		if wrong := wrongIndices(q); len(wrong) > 0 {
			idx = wrong[r.IntN(len(wrong))]
		}
	}
	text := q.Options[idx]
	return ExpertAdvice{
		OptionIndex: idx,
		OptionText:  text,
		Advice:      fmt.Sprintf("I'm pretty sure the answer is %q.", text),
		Correct:     idx == q.CorrectOptionIndex,
	}
}

// RollDice rolls a six-sided die. A 5 or 6 also reveals the correct option's text.
func RollDice(q models.Question, r Rand) DiceRoll {
	roll := DiceRoll{Roll: 1 + r.IntN(6)}
	if roll.Roll >= revealingRoll {
		roll.Revealed = true
		roll.RevealedText = q.CorrectText()
	}
	return roll
}

func wrongIndices(q models.Question) []int {
	wrong := make([]int, 0, len(q.Options))
	for i := range q.Options {
		if i != q.CorrectOptionIndex {
			wrong = append(wrong, i)
		}
	}
	return wrong
}

// Engine dispatches lifeline uses over a shared random source.
type Engine struct {
	mu   sync.Mutex
	rand Rand
}

// NewEngine creates an engine. A nil source gets a randomly seeded PCG.
func NewEngine(r Rand) *Engine {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{rand: r}
}

// Use computes the outcome of lifeline id for q. It keeps no usage state.
func (e *Engine) Use(id models.LifelineID, q models.Question) (Outcome, error) {
	if len(q.Options) < 2 {
		return Outcome{}, ErrNotEnoughOptions
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := Outcome{Lifeline: id}
	switch id {
	case models.LifelineFiftyFifty:
		out.Hidden = FiftyFifty(q, e.rand)
	case models.LifelineAudiencePoll:
		poll, err := AudiencePoll(q, e.rand)
		if err != nil {
			return Outcome{}, err
		}
		out.Poll = poll
	case models.LifelineAskExpert:
		advice := AskExpert(q, e.rand)
		out.Expert = &advice
	case models.LifelineRollDice:
		roll := RollDice(q, e.rand)
		out.Dice = &roll
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownLifeline, id)
	}
	return out, nil
}
