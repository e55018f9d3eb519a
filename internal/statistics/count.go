package statistics

import (
	"github.com/shopspring/decimal"

	"github.com/swarm-blackjack/trainer/internal/card"
)

// System is a named card-counting tag system, grounded on
// original_source/api/schemas.py's CountingDrillRequest's
// `system: Literal["hilo", "ko", "omega2", "wong_halves"]`.
type System string

const (
	HiLo       System = "hilo"
	KO         System = "ko"
	Omega2     System = "omega2"
	WongHalves System = "wong_halves"
)

// HiLoTag returns the Hi-Lo running-count tag for a single card: +1 for
// 2-6, 0 for 7-9, -1 for 10/face/ace. The counting-drill endpoint uses
// Hi-Lo for every request; the other systems are named above but have no
// tag function here. Hi-Lo matches
// original_source/core/statistics/probability.py's primary system.
func HiLoTag(c card.Card) int {
	switch c.PairKey() {
	case "2", "3", "4", "5", "6":
		return 1
	case "10":
		return -1
	}
	if c.IsAce() {
		return -1
	}
	return 0
}

// TrueCount converts a running count to a true count by dividing by the
// estimated decks remaining, per the standard card-counting conversion used
// throughout original_source/core/statistics/probability.py.
func TrueCount(running int, decksRemaining decimal.Decimal) decimal.Decimal {
	if decksRemaining.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(running)).Div(decksRemaining)
}
