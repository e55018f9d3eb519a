package engine

import (
	"github.com/shopspring/decimal"

	"github.com/swarm-blackjack/trainer/internal/event"
	"github.com/swarm-blackjack/trainer/internal/money"
)

// resolveRound implements spec.md §4.8: insurance settles first, then each
// hand resolves by the exact outcome-precedence rules, then ROUND_ENDED and
// the WAITING_FOR_BET/GAME_OVER transition. Ported from
// original_source/core/game/engine.py's _resolve_round.
func (g *Game) resolveRound() {
	dealerBlackjack := g.dealerHand.IsBlackjack()

	if g.insuranceBet.GreaterThan(money.Zero) {
		if dealerBlackjack {
			winnings := g.insuranceBet.Add(g.insuranceBet)
			g.bankroll = g.bankroll.Add(winnings)
			g.emit.Emit(event.InsuranceWins, event.Data{"amount": winnings.String()})
		} else {
			g.bankroll = g.bankroll.Sub(g.insuranceBet)
			g.emit.Emit(event.InsuranceLoses, event.Data{"amount": g.insuranceBet.String()})
		}
	}

	total := money.Zero
	payoutRatio := decimal.NewFromFloat(g.rules.BlackjackPayout)

	for i, h := range g.playerHands {
		var net money.Amount
		switch {
		case h.IsSurrendered:
			net = h.Bet.Half().Neg()
		case h.IsBusted():
			net = h.Bet.Neg()
		case g.dealerHand.IsBusted():
			net = h.Bet
		case dealerBlackjack && h.IsBlackjack():
			net = money.Zero
		case dealerBlackjack:
			net = h.Bet.Neg()
		case h.IsBlackjack():
			net = h.Bet.MulRat(payoutRatio).RoundPayout()
		default:
			cmp := h.Value() - g.dealerHand.Value()
			switch {
			case cmp > 0:
				net = h.Bet
			case cmp < 0:
				net = h.Bet.Neg()
			default:
				net = money.Zero
			}
		}

		g.bankroll = g.bankroll.Add(net)
		total = total.Add(net)

		switch {
		case net.IsZero():
			g.emit.Emit(event.Push, event.Data{"hand_index": i})
		case net.IsNegative():
			g.emit.Emit(event.PlayerLoses, event.Data{"hand_index": i, "amount": net.Neg().String()})
		default:
			g.emit.Emit(event.PlayerWins, event.Data{"hand_index": i, "amount": net.String()})
		}
	}

	if g.insuranceBet.GreaterThan(money.Zero) {
		if dealerBlackjack {
			total = total.Add(g.insuranceBet).Add(g.insuranceBet)
		} else {
			total = total.Sub(g.insuranceBet)
		}
	}

	g.emit.Emit(event.RoundEnded, event.Data{"result": total.String(), "bankroll": g.bankroll.String()})
	g.transition(RoundComplete)

	if g.bankroll.LessThan(g.rules.MinBet) {
		g.emit.Emit(event.GameEnded, event.Data{"reason": "bankrupt"})
		g.transition(GameOver)
	} else {
		g.transition(WaitingForBet)
	}
}
