package engine

// advanceToNextHand implements spec.md §4.6: increment current_hand_index;
// if past the last hand, either skip dealer play and resolve (every hand
// busted or surrendered) or play the dealer then resolve.
func (g *Game) advanceToNextHand() {
	g.currentHandIndex++
	if g.currentHandIndex < len(g.playerHands) {
		return
	}

	allDone := true
	for _, h := range g.playerHands {
		if !h.IsBusted() && !h.IsSurrendered {
			allDone = false
			break
		}
	}

	if allDone {
		g.transition(Resolving)
		g.resolveRound()
		return
	}

	g.transition(DealerTurn)
	g.playDealer()
	g.transition(Resolving)
	g.resolveRound()
}
