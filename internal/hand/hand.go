// Package hand implements the ordered card container and its derived
// predicates (value, soft, blackjack, bust, pair), grounded on
// original_source/core/game/engine.py's inline hand-evaluation logic (the
// kept example files do not carry a standalone core/hand.py, so the totals
// math below is ported directly from the engine's use of it).
package hand

import (
	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/money"
)

// Hand is an ordered sequence of cards plus the per-hand mutable flags
// spec.md §3 names.
type Hand struct {
	Cards         []card.Card
	Bet           money.Amount
	IsDoubled     bool
	IsSplitHand   bool
	IsSurrendered bool
}

// New returns an empty hand with the given bet.
func New(bet money.Amount) *Hand {
	return &Hand{Bet: bet}
}

// AddCard appends a card. Invariant: once IsSurrendered is set, callers must
// never call AddCard again (enforced by the engine, not here, since the
// engine alone knows the state machine's current phase).
func (h *Hand) AddCard(c card.Card) {
	h.Cards = append(h.Cards, c)
}

// Value computes the maximum total <= 21 treating aces as 11 where possible,
// else the minimum (all-aces-as-1) bust total.
func (h *Hand) Value() int {
	total := 0
	aces := 0
	for _, c := range h.Cards {
		total += c.HardValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10 // downgrade one ace from 11 to 1
		aces--
	}
	return total
}

// IsSoft reports whether at least one ace is still being counted as 11 in
// the hand's current best total.
func (h *Hand) IsSoft() bool {
	total := 0
	aces := 0
	for _, c := range h.Cards {
		total += c.HardValue()
		if c.IsAce() {
			aces++
		}
	}
	softAces := aces
	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}
	return softAces > 0
}

// IsBlackjack is true iff the hand has exactly two cards totalling 21 and is
// not a split-origin hand — split hands can never be blackjacks per spec.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Value() == 21 && !h.IsSplitHand
}

// IsBusted is true when the best achievable total exceeds 21.
func (h *Hand) IsBusted() bool {
	return h.Value() > 21
}

// IsPair reports whether the hand is exactly two cards of equal
// pair-grouping rank (all ten-valued ranks pair with each other).
func (h *Hand) IsPair() bool {
	if len(h.Cards) != 2 {
		return false
	}
	return h.Cards[0].PairKey() == h.Cards[1].PairKey()
}

// CanDouble reports whether the hand is eligible to double: exactly two
// cards, not already doubled, not surrendered. Rule-dependent legality
// (bankroll, double_on, double_after_split) is layered on by the engine.
func (h *Hand) CanDouble() bool {
	return len(h.Cards) == 2 && !h.IsDoubled && !h.IsSurrendered
}

// Clone deep-copies the hand, so that changes to the copy's cards leave the
// original untouched.
func (h *Hand) Clone() *Hand {
	cards := make([]card.Card, len(h.Cards))
	copy(cards, h.Cards)
	return &Hand{
		Cards:         cards,
		Bet:           h.Bet,
		IsDoubled:     h.IsDoubled,
		IsSplitHand:   h.IsSplitHand,
		IsSurrendered: h.IsSurrendered,
	}
}
