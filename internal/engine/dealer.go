package engine

import "github.com/swarm-blackjack/trainer/internal/event"

// playDealer implements spec.md §4.7: reveal the hole card once, then hit
// until value >= 17, hitting again on a soft 17 if rules.dealer_hits_soft_17,
// finally emitting DEALER_STANDS or DEALER_BUSTS.
func (g *Game) playDealer() {
	hole := g.dealerHand.Cards[1]
	g.emit.Emit(event.DealerReveals, event.Data{"card": hole})

	for g.dealerShouldHit() {
		g.dealCardToHand(g.dealerHand, true, "dealer")
		g.emit.Emit(event.DealerHits, event.Data{})
	}

	if g.dealerHand.IsBusted() {
		g.emit.Emit(event.DealerBusts, event.Data{})
	} else {
		g.emit.Emit(event.DealerStands, event.Data{})
	}
}

func (g *Game) dealerShouldHit() bool {
	v := g.dealerHand.Value()
	if v < 17 {
		return true
	}
	if v == 17 && g.dealerHand.IsSoft() && g.rules.DealerHitsSoft17 {
		return true
	}
	return false
}
