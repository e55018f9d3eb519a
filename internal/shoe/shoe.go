// Package shoe implements the multi-deck card source with shuffle, draw,
// and penetration-trigger semantics, grounded on deck-service/main.go's
// newShoe/getOrCreateShoe (flat-slice construction, math/rand.Shuffle) and
// generalized per spec.md §3-§4.2 (penetration, injectable random source).
package shoe

import (
	"math/rand"

	"github.com/swarm-blackjack/trainer/internal/card"
)

// Shoe is a stateful, consumable multi-deck source of cards.
type Shoe struct {
	cards       []card.Card
	numDecks    int
	penetration float64
	dealt       int
	rng         *rand.Rand
}

// New builds a freshly shuffled shoe of numDecks decks with the given
// penetration fraction (0,1]. rng is a constructor parameter so tests can
// pin the shuffle sequence, per spec.md §4.2.
func New(numDecks int, penetration float64, rng *rand.Rand) *Shoe {
	s := &Shoe{numDecks: numDecks, penetration: penetration, rng: rng}
	s.Shuffle()
	return s
}

// Shuffle restores full composition (4*numDecks of each rank) and permutes
// uniformly at random, resetting the dealt counter.
func (s *Shoe) Shuffle() {
	cards := make([]card.Card, 0, 52*s.numDecks)
	for d := 0; d < s.numDecks; d++ {
		for _, suit := range card.Suits {
			for _, rank := range card.Ranks {
				cards = append(cards, card.New(rank, suit))
			}
		}
	}
	s.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	s.cards = cards
	s.dealt = 0
}

// Draw removes and returns the card at the head of the shoe. Drawing from
// an empty shoe is a programmer error per spec.md §3/§7 and panics; the
// engine must never allow this to happen (it shuffles proactively via
// NeedsShuffle before any round starts).
func (s *Shoe) Draw() card.Card {
	if len(s.cards) == 0 {
		panic("shoe: draw from empty shoe")
	}
	c := s.cards[0]
	s.cards = s.cards[1:]
	s.dealt++
	return c
}

// NeedsShuffle is true once the dealt fraction reaches the penetration
// threshold; it stays true until the next Shuffle resets it (monotonic
// within a shoe, per spec.md §3).
func (s *Shoe) NeedsShuffle() bool {
	total := s.numDecks * 52
	if total == 0 {
		return true
	}
	return float64(s.dealt)/float64(total) >= s.penetration
}

// CardsRemaining is the count of undealt cards.
func (s *Shoe) CardsRemaining() int {
	return len(s.cards)
}

// NumDecks returns the shoe's configured deck count.
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Penetration returns the configured penetration fraction.
func (s *Shoe) Penetration() float64 {
	return s.penetration
}

// RemainingCards returns a copy of the undealt cards in order, used by the
// serializer (spec.md §4.11 — the remaining shoe as an ordered sequence).
func (s *Shoe) RemainingCards() []card.Card {
	out := make([]card.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Restore rebuilds shoe state from a previously-serialized ordered card
// sequence, used by the engine deserializer.
func Restore(cards []card.Card, numDecks int, penetration float64, rng *rand.Rand) *Shoe {
	cloned := make([]card.Card, len(cards))
	copy(cloned, cards)
	total := numDecks * 52
	dealt := total - len(cloned)
	if dealt < 0 {
		dealt = 0
	}
	return &Shoe{cards: cloned, numDecks: numDecks, penetration: penetration, dealt: dealt, rng: rng}
}
