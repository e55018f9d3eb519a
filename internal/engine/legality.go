package engine

import "github.com/swarm-blackjack/trainer/internal/hand"

// Derived legality predicates, consulted by UIs to present controls. Each is
// a pure function of current state, rules, and hand contents, re-derived
// fresh on every call rather than cached — per spec.md §4.4, these must
// never drift out of sync with the operations they describe.

// CanHit reports whether Hit() would currently be accepted.
func (g *Game) CanHit() bool {
	if g.state != PlayerTurn {
		return false
	}
	h := g.currentHand()
	return h != nil && !h.IsBusted()
}

// CanStand reports whether Stand() would currently be accepted.
func (g *Game) CanStand() bool {
	return g.state == PlayerTurn && g.currentHand() != nil
}

func (g *Game) canDoubleHand(h *hand.Hand) bool {
	if !h.CanDouble() {
		return false
	}
	if h.IsSplitHand && !g.rules.DoubleAfterSplit {
		return false
	}
	total := h.Value()
	switch g.rules.DoubleOn {
	case "9-11":
		if total < 9 || total > 11 {
			return false
		}
	case "10-11":
		if total < 10 || total > 11 {
			return false
		}
	}
	return true
}

// CanDouble reports whether DoubleDown() would currently be accepted.
func (g *Game) CanDouble() bool {
	if g.state != PlayerTurn {
		return false
	}
	h := g.currentHand()
	if h == nil || !g.canDoubleHand(h) {
		return false
	}
	return !h.Bet.GreaterThan(g.bankroll)
}

func (g *Game) canSplitHand(h *hand.Hand) bool {
	if !h.IsPair() {
		return false
	}
	if len(g.playerHands) >= g.rules.MaxSplits {
		return false
	}
	if h.Cards[0].IsAce() && h.IsSplitHand && !g.rules.ResplitAces {
		return false
	}
	return true
}

// CanSplit reports whether Split() would currently be accepted.
func (g *Game) CanSplit() bool {
	if g.state != PlayerTurn {
		return false
	}
	h := g.currentHand()
	if h == nil || !g.canSplitHand(h) {
		return false
	}
	return !h.Bet.GreaterThan(g.bankroll)
}

// CanSurrender reports whether Surrender() would currently be accepted.
func (g *Game) CanSurrender() bool {
	if g.state != PlayerTurn || g.rules.Surrender == "none" {
		return false
	}
	h := g.currentHand()
	return h != nil && len(h.Cards) == 2 && !h.IsSplitHand
}

// CanInsure reports whether TakeInsurance() would currently be accepted.
func (g *Game) CanInsure() bool {
	return g.state == OfferingInsurance
}
