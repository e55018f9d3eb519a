// Package engine implements the round-scoped game engine: the deterministic,
// event-emitting state machine that administers a shoe, enforces
// rule-dependent action legality, and resolves payouts. Grounded throughout
// on original_source/core/game/engine.py's BlackjackGame, reworked to the
// compile-time state.go adjacency table spec.md §9 prescribes in place of
// the original's `transitions.Machine`.
package engine

import (
	"math/rand"

	"github.com/swarm-blackjack/trainer/internal/apperr"
	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/event"
	"github.com/swarm-blackjack/trainer/internal/hand"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
	"github.com/swarm-blackjack/trainer/internal/shoe"
)

// Game is the engine. It exclusively owns player hands, the shoe, the
// dealer hand, the event emitter, and the rule set reference, per spec.md §3
// ownership notes.
type Game struct {
	rules rules.RuleSet
	shoe  *shoe.Shoe
	emit  *event.Emitter

	state State

	playerHands      []*hand.Hand
	currentHandIndex int
	bankroll         money.Amount
	insuranceBet     money.Amount

	dealerHand *hand.Hand
}

// New constructs a fresh engine with the given rules and bankroll. rng
// seeds the shoe's shuffle source (injectable per spec.md §4.2).
func New(rs rules.RuleSet, bankroll money.Amount, rng *rand.Rand) *Game {
	g := &Game{
		rules:      rs,
		shoe:       shoe.New(rs.NumDecks, rs.Penetration, rng),
		emit:       event.NewEmitter(256),
		state:      WaitingForBet,
		bankroll:   bankroll,
		dealerHand: hand.New(money.Zero),
	}
	return g
}

// Subscribe registers h for events of type t.
func (g *Game) Subscribe(t event.Type, h event.Handler) { g.emit.Subscribe(t, h) }

// SubscribeAll registers h as a wildcard subscriber for every event type.
func (g *Game) SubscribeAll(h event.Handler) { g.emit.SubscribeAll(h) }

// History returns a copy of the engine's retained event history.
func (g *Game) History() []event.Event { return g.emit.History() }

// State returns the engine's current GameState.
func (g *Game) State() State { return g.state }

// Bankroll returns the player's current bankroll.
func (g *Game) Bankroll() money.Amount { return g.bankroll }

// InsuranceBet returns the current round's insurance bet, zero if none.
func (g *Game) InsuranceBet() money.Amount { return g.insuranceBet }

// Hands returns the player's hands for the current round.
func (g *Game) Hands() []*hand.Hand { return g.playerHands }

// CurrentHandIndex returns the index of the active hand.
func (g *Game) CurrentHandIndex() int { return g.currentHandIndex }

// DealerHand returns the dealer's hand for the current round.
func (g *Game) DealerHand() *hand.Hand { return g.dealerHand }

// Rules returns the engine's rule set.
func (g *Game) Rules() rules.RuleSet { return g.rules }

// Shoe exposes the shoe for serialization and inspection.
func (g *Game) Shoe() interface {
	RemainingCards() []card.Card
	NumDecks() int
	Penetration() float64
} {
	return g.shoe
}

// Reset reinitializes the engine to a fresh round with a new bankroll,
// leaving the rule set and event subscribers intact — the server-side
// effect of a client "reset_game" push-transport message (§6.2).
func (g *Game) Reset(bankroll money.Amount, rng *rand.Rand) {
	g.shoe = shoe.New(g.rules.NumDecks, g.rules.Penetration, rng)
	g.state = WaitingForBet
	g.playerHands = nil
	g.currentHandIndex = 0
	g.bankroll = bankroll
	g.insuranceBet = money.Zero
	g.dealerHand = hand.New(money.Zero)
}

func (g *Game) transition(to State) {
	if !isValidTransition(g.state, to) {
		panic(apperr.EngineFault("engine: illegal transition %s -> %s", g.state, to))
	}
	g.state = to
}

// currentHand returns the active hand, or nil if current_hand_index is past
// the end (player turn over).
func (g *Game) currentHand() *hand.Hand {
	if g.currentHandIndex < 0 || g.currentHandIndex >= len(g.playerHands) {
		return nil
	}
	return g.playerHands[g.currentHandIndex]
}

func (g *Game) reject(err *apperr.Error) bool {
	switch err.Kind {
	case apperr.KindInsufficientFunds:
		g.emit.Emit(event.InsufficientFunds, event.Data{"message": err.Message})
	default:
		g.emit.Emit(event.InvalidAction, event.Data{"message": err.Message})
	}
	return false
}

// Bet starts a round. Accepted only in WAITING_FOR_BET; rejected if amount
// is out of [min_bet, max_bet] or exceeds bankroll. See spec.md §4.4.
func (g *Game) Bet(amount money.Amount) bool {
	if g.state != WaitingForBet {
		return g.reject(apperr.DomainViolation("bet is only legal in WAITING_FOR_BET, current state is %s", g.state))
	}
	if amount.LessThan(g.rules.MinBet) || amount.GreaterThan(g.rules.MaxBet) {
		return g.reject(apperr.DomainViolation("bet %s is outside [%s, %s]", amount, g.rules.MinBet, g.rules.MaxBet))
	}
	if amount.GreaterThan(g.bankroll) {
		return g.reject(apperr.InsufficientFunds(amount.String(), g.bankroll.String()))
	}

	g.playerHands = []*hand.Hand{hand.New(amount)}
	g.currentHandIndex = 0
	g.insuranceBet = money.Zero
	g.dealerHand = hand.New(money.Zero)

	g.transition(Dealing)
	g.emit.Emit(event.BetPlaced, event.Data{"amount": amount.String()})

	g.dealOpeningHand()
	return true
}

// Hit deals one card to the active hand. PLAYER_TURN only, per spec.md §4.4.
func (g *Game) Hit() bool {
	if g.state != PlayerTurn {
		return g.reject(apperr.DomainViolation("hit is only legal in PLAYER_TURN, current state is %s", g.state))
	}
	h := g.currentHand()
	if h == nil || h.IsBusted() {
		return g.reject(apperr.DomainViolation("no active, non-busted hand to hit"))
	}
	g.dealCardToHand(h, true, "player")
	g.emit.Emit(event.PlayerHit, event.Data{"hand_index": g.currentHandIndex})
	if h.IsBusted() {
		g.emit.Emit(event.PlayerBusts, event.Data{"hand_index": g.currentHandIndex})
		g.advanceToNextHand()
	}
	return true
}

// Stand ends play on the active hand. PLAYER_TURN only.
func (g *Game) Stand() bool {
	if g.state != PlayerTurn {
		return g.reject(apperr.DomainViolation("stand is only legal in PLAYER_TURN, current state is %s", g.state))
	}
	g.emit.Emit(event.PlayerStand, event.Data{"hand_index": g.currentHandIndex})
	g.advanceToNextHand()
	return true
}

// DoubleDown doubles the bet, deals exactly one card, then advances
// regardless of outcome. Requires CanDouble() on the active hand plus
// sufficient bankroll and rule compliance, per spec.md §4.4.
func (g *Game) DoubleDown() bool {
	if g.state != PlayerTurn {
		return g.reject(apperr.DomainViolation("double is only legal in PLAYER_TURN, current state is %s", g.state))
	}
	h := g.currentHand()
	if h == nil || !g.canDoubleHand(h) {
		return g.reject(apperr.DomainViolation("double is not legal on the active hand"))
	}
	if h.Bet.GreaterThan(g.bankroll) {
		return g.reject(apperr.InsufficientFunds(h.Bet.String(), g.bankroll.String()))
	}
	h.Bet = h.Bet.Add(h.Bet)
	h.IsDoubled = true
	g.dealCardToHand(h, true, "player")
	g.emit.Emit(event.PlayerDouble, event.Data{"hand_index": g.currentHandIndex})
	if h.IsBusted() {
		g.emit.Emit(event.PlayerBusts, event.Data{"hand_index": g.currentHandIndex})
	}
	g.advanceToNextHand()
	return true
}

// Split moves the active hand's second card into a new hand with an equal
// bet, marks both is_split_hand, and deals one card to each. See spec.md
// §4.4 for the full legality and resplit-aces/hit-split-aces rules.
func (g *Game) Split() bool {
	if g.state != PlayerTurn {
		return g.reject(apperr.DomainViolation("split is only legal in PLAYER_TURN, current state is %s", g.state))
	}
	h := g.currentHand()
	if h == nil || !g.canSplitHand(h) {
		return g.reject(apperr.DomainViolation("split is not legal on the active hand"))
	}
	if h.Bet.GreaterThan(g.bankroll) {
		return g.reject(apperr.InsufficientFunds(h.Bet.String(), g.bankroll.String()))
	}

	second := h.Cards[1]
	h.Cards = h.Cards[:1]
	newHand := hand.New(h.Bet)
	newHand.AddCard(second)
	h.IsSplitHand = true
	newHand.IsSplitHand = true

	g.playerHands = append(g.playerHands[:g.currentHandIndex+1], append([]*hand.Hand{newHand}, g.playerHands[g.currentHandIndex+1:]...)...)

	g.dealCardToHand(h, true, "player")
	g.dealCardToHand(newHand, true, "player")
	g.emit.Emit(event.PlayerSplit, event.Data{"hand_index": g.currentHandIndex})

	splitAces := h.Cards[0].IsAce()
	if splitAces && !g.rules.HitSplitAces {
		// Both of the two hands just dealt above are frozen split-ace
		// hands: advance twice to skip past both of them, not just the
		// first (spec.md §4.4 — "no further actions on those hands").
		g.advanceToNextHand()
		g.advanceToNextHand()
	}
	return true
}

// Surrender sets is_surrendered on the active hand and advances. Requires
// surrender allowed by rules, exactly two cards, and not a split-origin hand.
func (g *Game) Surrender() bool {
	if g.state != PlayerTurn {
		return g.reject(apperr.DomainViolation("surrender is only legal in PLAYER_TURN, current state is %s", g.state))
	}
	h := g.currentHand()
	if h == nil || g.rules.Surrender == rules.SurrenderNone || len(h.Cards) != 2 || h.IsSplitHand {
		return g.reject(apperr.DomainViolation("surrender is not legal on the active hand"))
	}
	h.IsSurrendered = true
	g.emit.Emit(event.PlayerSurrender, event.Data{"hand_index": g.currentHandIndex})
	g.advanceToNextHand()
	return true
}

// TakeInsurance stakes an insurance side bet, defaulting to half the main
// bet, then proceeds to the post-insurance peek.
func (g *Game) TakeInsurance(amount *money.Amount) bool {
	if g.state != OfferingInsurance {
		return g.reject(apperr.DomainViolation("insurance can only be decided in OFFERING_INSURANCE, current state is %s", g.state))
	}
	ceiling := g.playerHands[0].Bet.FloorHalf()
	stake := ceiling
	if amount != nil {
		stake = *amount
	}
	if stake.GreaterThan(ceiling) {
		return g.reject(apperr.DomainViolation("insurance %s exceeds half the main bet (%s)", stake, ceiling))
	}
	if stake.GreaterThan(g.bankroll) {
		return g.reject(apperr.InsufficientFunds(stake.String(), g.bankroll.String()))
	}
	g.insuranceBet = stake
	g.emit.Emit(event.InsuranceTaken, event.Data{"amount": stake.String()})
	g.completeInsuranceDecision()
	return true
}

// DeclineInsurance sets insurance_bet to zero and proceeds to the peek.
func (g *Game) DeclineInsurance() bool {
	if g.state != OfferingInsurance {
		return g.reject(apperr.DomainViolation("insurance can only be decided in OFFERING_INSURANCE, current state is %s", g.state))
	}
	g.insuranceBet = money.Zero
	g.emit.Emit(event.InsuranceDeclined, event.Data{})
	g.completeInsuranceDecision()
	return true
}

// dealCardToHand draws one card from the shoe and appends it to h, emitting
// CARD_DEALT. faceUp controls whether the card's rank is disclosed in the
// event payload — the hidden hole card is emitted with a sentinel, per
// spec.md §4.3/§9.
func (g *Game) dealCardToHand(h *hand.Hand, faceUp bool, who string) {
	c := g.shoe.Draw()
	h.AddCard(c)
	if faceUp {
		g.emit.Emit(event.CardDealt, event.Data{
			"card":       c,
			"hand":       who,
			"hand_value": h.Value(),
		})
	} else {
		g.emit.Emit(event.CardDealt, event.Data{
			"card":       "hidden",
			"hand":       who,
			"hand_value": nil,
		})
	}
}
