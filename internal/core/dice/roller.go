package dice

import (
	"math/rand"
	"sync"
)

// Source produces dice rolls from a single seeded pseudo-random stream.
// Unlike RollDice, which reseeds per request, a Source advances its stream
// on every draw, so consecutive rolls differ while a fixed seed still
// reproduces a whole encounter. Safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource creates a roll source seeded with the given value.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// RollDie rolls a single die with the given number of sides.
func (s *Source) RollDie(sides int) (int, error) {
	if sides <= 0 {
		return 0, ErrInvalidDiceSpec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return rollDie(s.rng, sides), nil
}

// RollSpec rolls one dice specification and returns the individual die
// results in roll order.
func (s *Source) RollSpec(spec Spec) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := RollWithRng(s.rng, []Spec{spec})
	if err != nil {
		return nil, err
	}
	return result.Rolls[0].Results, nil
}
