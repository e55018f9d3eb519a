package engine

import (
	"math/rand"

	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/hand"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/shoe"
)

// Restore overwrites a freshly-constructed engine's mutable state from a
// deserialized snapshot, per spec.md §4.11: "construct a new engine with
// the same rules, then overwrite state." Exported for internal/snapshot,
// which is the only caller.
func (g *Game) Restore(state State, hands []*hand.Hand, currentHandIndex int, insuranceBet money.Amount, dealerHand *hand.Hand, shoeCards []card.Card, rng *rand.Rand) {
	g.state = state
	g.playerHands = hands
	g.currentHandIndex = currentHandIndex
	g.insuranceBet = insuranceBet
	g.dealerHand = dealerHand
	g.shoe = shoe.Restore(shoeCards, g.rules.NumDecks, g.rules.Penetration, rng)
}
