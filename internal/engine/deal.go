package engine

import (
	"github.com/swarm-blackjack/trainer/internal/event"
)

// dealOpeningHand implements spec.md §4.5's opening-deal sub-protocol: four
// cards (player, dealer face-up, player, dealer face-down), ROUND_STARTED,
// then the insurance offer / dealer-peek / immediate-blackjack-resolution
// chain. Ported from original_source/core/game/engine.py's
// _deal_initial_cards.
func (g *Game) dealOpeningHand() {
	if g.shoe.NeedsShuffle() {
		g.shoe.Shuffle()
		g.emit.Emit(event.ShoeShuffled, event.Data{})
	}

	playerHand := g.playerHands[0]
	g.dealCardToHand(playerHand, true, "player")
	g.dealCardToHand(g.dealerHand, true, "dealer")
	g.dealCardToHand(playerHand, true, "player")
	g.dealCardToHand(g.dealerHand, false, "dealer") // hole card, hidden sentinel

	g.emit.Emit(event.RoundStarted, event.Data{})

	if playerHand.IsBlackjack() {
		g.emit.Emit(event.PlayerBlackjack, event.Data{"hand_index": 0})
	}

	upcard := g.dealerHand.Cards[0]
	if upcard.IsAce() && g.rules.InsuranceAllowed && !playerHand.IsBlackjack() {
		g.transition(OfferingInsurance)
		g.emit.Emit(event.InsuranceOffered, event.Data{})
		return // await the player's insurance decision indefinitely
	}

	g.completeOpeningPeek()
}

// completeInsuranceDecision runs after take_insurance/decline_insurance and
// checks for dealer blackjack — the single authoritative peek, occurring
// once, immediately after the insurance decision (spec.md §9 Open Question
// resolution).
func (g *Game) completeInsuranceDecision() {
	g.completeOpeningPeek()
}

// completeOpeningPeek performs the dealer-blackjack peek (when the upcard
// is a ten-value or ace and rules.dealer_peeks), then resolves the
// player-blackjack-vs-no-dealer-blackjack case, else moves to PLAYER_TURN.
// This function is reached exactly once per round: either directly from
// dealOpeningHand (insurance was never offered) or from
// completeInsuranceDecision (insurance was offered and decided).
func (g *Game) completeOpeningPeek() {
	playerHand := g.playerHands[0]
	upcard := g.dealerHand.Cards[0]
	isTenOrAce := upcard.HardValue() == 10 || upcard.IsAce()

	if isTenOrAce && g.rules.DealerPeeks && g.dealerHand.IsBlackjack() {
		g.emit.Emit(event.DealerBlackjack, event.Data{})
		g.transition(Resolving)
		g.resolveRound()
		return
	}

	if playerHand.IsBlackjack() {
		// Player has blackjack, dealer does not (checked above): resolve
		// without dealer play.
		g.transition(Resolving)
		g.resolveRound()
		return
	}

	g.transition(PlayerTurn)
}
