// Package rules defines the immutable RuleSet value object and its named
// factory presets, grounded on original_source/core/strategy/rules.py's
// RuleSet dataclass and its vegas_strip/downtown_vegas/single_deck/
// atlantic_city classmethods.
package rules

import (
	"fmt"

	"github.com/swarm-blackjack/trainer/internal/money"
)

// DoubleOn restricts which two-card totals may be doubled.
type DoubleOn string

const (
	DoubleAny   DoubleOn = "any"
	Double9to11 DoubleOn = "9-11"
	Double10to11 DoubleOn = "10-11"
)

// Surrender controls whether, and when, surrender is legal.
type Surrender string

const (
	SurrenderNone  Surrender = "none"
	SurrenderEarly Surrender = "early"
	SurrenderLate  Surrender = "late"
)

// RuleSet is immutable once constructed: every field is a plain value and no
// method mutates it. Every field spec.md §3 names is present.
type RuleSet struct {
	NumDecks         int
	Penetration      float64
	MinBet           money.Amount
	MaxBet           money.Amount
	DealerHitsSoft17 bool
	BlackjackPayout  float64 // rational payout ratio, e.g. 1.5 for 3:2, 1.2 for 6:5
	DoubleAfterSplit bool
	DoubleOn         DoubleOn
	ResplitAces      bool
	HitSplitAces     bool
	MaxSplits        int
	Surrender        Surrender
	InsuranceAllowed bool
	DealerPeeks      bool
}

// Validate enforces __post_init__'s constraints from rules.py: num_decks in
// [1,8], blackjack_payout >= 1.0, max_splits >= 1.
func (r RuleSet) Validate() error {
	if r.NumDecks < 1 || r.NumDecks > 8 {
		return fmt.Errorf("rules: num_decks must be in [1,8], got %d", r.NumDecks)
	}
	if r.BlackjackPayout < 1.0 {
		return fmt.Errorf("rules: blackjack_payout must be >= 1.0, got %v", r.BlackjackPayout)
	}
	if r.MaxSplits < 1 {
		return fmt.Errorf("rules: max_splits must be >= 1, got %d", r.MaxSplits)
	}
	return nil
}

// VegasStrip mirrors rules.py's vegas_strip(): liberal rules, 6 decks, S17.
func VegasStrip() RuleSet {
	return RuleSet{
		NumDecks:         6,
		Penetration:      0.75,
		MinBet:           money.FromInt(10),
		MaxBet:           money.FromInt(1000),
		DealerHitsSoft17: false,
		BlackjackPayout:  1.5,
		DoubleAfterSplit: true,
		DoubleOn:         DoubleAny,
		ResplitAces:      false,
		HitSplitAces:     false,
		MaxSplits:        4,
		Surrender:        SurrenderLate,
		InsuranceAllowed: true,
		DealerPeeks:      true,
	}
}

// DowntownVegas mirrors rules.py's downtown_vegas(): single-deck-adjacent,
// H17, no surrender, tighter doubling.
func DowntownVegas() RuleSet {
	r := VegasStrip()
	r.NumDecks = 2
	r.DealerHitsSoft17 = true
	r.DoubleOn = Double9to11
	r.Surrender = SurrenderNone
	return r
}

// SingleDeck mirrors rules.py's single_deck(): single deck, tight doubling,
// no resplitting, no DAS — the traditional tradeoff for single-deck games.
func SingleDeck() RuleSet {
	r := VegasStrip()
	r.NumDecks = 1
	r.DoubleAfterSplit = false
	r.DoubleOn = Double10to11
	r.MaxSplits = 2
	r.Surrender = SurrenderNone
	return r
}

// AtlanticCity mirrors rules.py's atlantic_city(): 8 decks, early surrender,
// liberal doubling and resplitting.
func AtlanticCity() RuleSet {
	r := VegasStrip()
	r.NumDecks = 8
	r.ResplitAces = true
	r.HitSplitAces = false
	r.Surrender = SurrenderEarly
	return r
}
