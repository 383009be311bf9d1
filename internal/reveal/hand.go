package reveal

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/jask/packreveal/internal/catalog"
)

// DefaultHandSize is the number of cards drawn when the catalog allows it.
const DefaultHandSize = 5

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

// DefaultRNG draws from the process-wide math/rand/v2 source.
func DefaultRNG() RNG { return stdRNG{} }

// Hand is an ordered draw of distinct cards. It is never mutated after
// DrawHand returns it.
type Hand struct {
	ID    string
	Cards []catalog.Card
}

// Len returns the number of cards in the hand.
func (h Hand) Len() int { return len(h.Cards) }

// DrawHand shuffles the valid cards and takes the first min(size, n).
// It fails with catalog.ErrEmptyCatalog when no card is valid.
func DrawHand(cards []catalog.Card, size int, rng RNG) (Hand, error) {
	valid := catalog.FilterValid(cards)
	if len(valid) == 0 {
		return Hand{}, catalog.EmptyError("")
	}
	if size <= 0 {
		size = DefaultHandSize
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	// Fisher-Yates over indices so the caller's slice is left untouched.
	idx := make([]int, len(valid))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}

	n := min(size, len(valid))
	out := make([]catalog.Card, n)
	for i := range n {
		out[i] = valid[idx[i]]
	}
	return Hand{ID: uuid.NewString(), Cards: out}, nil
}
