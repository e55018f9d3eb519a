// Package statistics supplements spec.md's out-of-scope house-edge/Kelly
// calculators and the card-counting accumulator's running-count math, all
// pure functions grounded on original_source/core/statistics/{house_edge,
// kelly,bankroll,probability}.py. None of these import engine internals or
// mutate engine state — they consume only public RuleSet/round-result
// values, preserving spec.md's "defined only at their interface" framing.
package statistics

import (
	"github.com/shopspring/decimal"

	"github.com/swarm-blackjack/trainer/internal/rules"
)

// baseHouseEdgeBps is the player's edge in the reference 6-deck, S17, DAS,
// late-surrender, no-resplit-aces, 3:2 game, in percent (-0.50%).
var baseHouseEdgeBps = decimal.NewFromFloat(-0.50)

// HouseEdge estimates the house edge for rs as a decimal fraction (e.g.
// -0.005 for a 0.5% player disadvantage), composing per-rule adjustments in
// the same direction and rough magnitude as house_edge.py's per-rule
// deltas.
func HouseEdge(rs rules.RuleSet) decimal.Decimal {
	edge := baseHouseEdgeBps

	if rs.DealerHitsSoft17 {
		edge = edge.Sub(decimal.NewFromFloat(0.22)) // H17 worsens edge ~0.22%
	}
	if !rs.DoubleAfterSplit {
		edge = edge.Sub(decimal.NewFromFloat(0.14))
	}
	if rs.Surrender == rules.SurrenderNone {
		edge = edge.Sub(decimal.NewFromFloat(0.08))
	} else if rs.Surrender == rules.SurrenderEarly {
		edge = edge.Add(decimal.NewFromFloat(0.24))
	}
	if rs.ResplitAces {
		edge = edge.Add(decimal.NewFromFloat(0.03))
	}
	if rs.BlackjackPayout < 1.5 {
		// 6:5 blackjack payout, a well-known large edge swing.
		edge = edge.Sub(decimal.NewFromFloat(1.39))
	}
	switch rs.NumDecks {
	case 1:
		edge = edge.Add(decimal.NewFromFloat(0.48))
	case 2:
		edge = edge.Add(decimal.NewFromFloat(0.19))
	case 8:
		edge = edge.Sub(decimal.NewFromFloat(0.02))
	}

	// Convert from percent to a fraction: house_edge.py expresses these
	// deltas in percent, so divide by 100.
	return edge.Div(decimal.NewFromInt(100))
}
