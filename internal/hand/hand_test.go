package hand

import (
	"testing"

	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/money"
)

func TestValueSoftAndHard(t *testing.T) {
	h := New(money.FromInt(10))
	h.AddCard(card.New(card.Ace, card.Spades))
	h.AddCard(card.New(card.Six, card.Hearts))
	if h.Value() != 17 {
		t.Fatalf("A+6 should be 17, got %d", h.Value())
	}
	if !h.IsSoft() {
		t.Fatal("A+6 should be soft")
	}
	h.AddCard(card.New(card.Nine, card.Clubs))
	if h.Value() != 16 {
		t.Fatalf("A+6+9 should downgrade ace to hard 16, got %d", h.Value())
	}
	if h.IsSoft() {
		t.Fatal("A+6+9 should no longer be soft")
	}
}

func TestBlackjackExcludesSplitHands(t *testing.T) {
	h := New(money.FromInt(10))
	h.AddCard(card.New(card.Ace, card.Spades))
	h.AddCard(card.New(card.King, card.Hearts))
	if !h.IsBlackjack() {
		t.Fatal("A+K should be blackjack")
	}
	h.IsSplitHand = true
	if h.IsBlackjack() {
		t.Fatal("a split-origin hand can never be blackjack")
	}
}

func TestIsBustedAndIsPair(t *testing.T) {
	h := New(money.FromInt(10))
	h.AddCard(card.New(card.King, card.Spades))
	h.AddCard(card.New(card.Queen, card.Hearts))
	if !h.IsPair() {
		t.Fatal("K+Q should pair (both key as 10)")
	}
	h.AddCard(card.New(card.Five, card.Clubs))
	if !h.IsBusted() {
		t.Fatal("K+Q+5 should bust")
	}
}

func TestCanDouble(t *testing.T) {
	h := New(money.FromInt(10))
	h.AddCard(card.New(card.Five, card.Spades))
	h.AddCard(card.New(card.Six, card.Hearts))
	if !h.CanDouble() {
		t.Fatal("two-card 11 should be double-eligible")
	}
	h.IsDoubled = true
	if h.CanDouble() {
		t.Fatal("already-doubled hand cannot double again")
	}
}

func TestClone(t *testing.T) {
	h := New(money.FromInt(25))
	h.AddCard(card.New(card.Seven, card.Spades))
	clone := h.Clone()
	clone.AddCard(card.New(card.Eight, card.Hearts))
	if len(h.Cards) != 1 {
		t.Fatal("mutating the clone must not affect the original")
	}
	if len(clone.Cards) != 2 {
		t.Fatal("clone should have its own appended card")
	}
}
