package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/event"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
	"github.com/swarm-blackjack/trainer/internal/shoe"
)

// stack builds a game whose shoe deals the given cards in order, bypassing
// shuffling — it accesses the unexported shoe field directly, which is why
// this file lives in package engine rather than engine_test.
func stack(rs rules.RuleSet, bankroll money.Amount, cards []card.Card) *Game {
	g := New(rs, bankroll, rand.New(rand.NewSource(1)))
	g.shoe = shoe.Restore(cards, rs.NumDecks, 1.0, rand.New(rand.NewSource(1)))
	return g
}

func c(rank card.Rank, suit card.Suit) card.Card { return card.New(rank, suit) }

func recordTypes(g *Game) *[]event.Type {
	var types []event.Type
	g.SubscribeAll(func(e event.Event) {
		types = append(types, e.Type)
	})
	return &types
}

func TestBlackjackPaysThreeToTwo(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		c(card.Ace, card.Spades), c(card.Nine, card.Clubs),
		c(card.King, card.Diamonds), c(card.Six, card.Hearts),
	})
	types := recordTypes(g)

	require.True(t, g.Bet(money.FromInt(100)))

	require.Contains(t, *types, event.PlayerBlackjack)
	require.Equal(t, WaitingForBet, g.State())
	require.Equal(t, "1150", g.Bankroll().String())
}

func TestBlackjackPayoutRoundsToNearestEvenUnit(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		c(card.Ace, card.Spades), c(card.Six, card.Clubs),
		c(card.Ten, card.Diamonds), c(card.Seven, card.Hearts),
	})

	require.True(t, g.Bet(money.FromInt(25)))

	// 25 * 1.5 = 37.5, which banker's rounding takes to the nearest even
	// unit, 38, not down to 37.
	require.Equal(t, "1038", g.Bankroll().String())
}

func TestDealerBust(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		c(card.Ten, card.Spades), c(card.Ten, card.Clubs),
		c(card.Eight, card.Diamonds), c(card.Six, card.Hearts),
		c(card.Nine, card.Spades),
	})
	types := recordTypes(g)

	require.True(t, g.Bet(money.FromInt(50)))
	require.True(t, g.Stand())

	require.Contains(t, *types, event.DealerBusts)
	require.Equal(t, "1050", g.Bankroll().String())
}

func TestPushOnTwenty(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		c(card.Queen, card.Spades), c(card.Ten, card.Clubs),
		c(card.Jack, card.Diamonds), c(card.King, card.Hearts),
	})
	types := recordTypes(g)

	require.True(t, g.Bet(money.FromInt(20)))
	require.True(t, g.Stand())

	require.Contains(t, *types, event.Push)
	require.Equal(t, "1000", g.Bankroll().String())
}

func TestSplitAndDoubleAfterSplit(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		// opening deal: player 8,8; dealer 6, hole 7
		c(card.Eight, card.Spades), c(card.Six, card.Clubs),
		c(card.Eight, card.Diamonds), c(card.Seven, card.Hearts),
		// split deals: card to hand0, card to hand1
		c(card.Three, card.Spades), c(card.Seven, card.Clubs),
		// double on hand0
		c(card.Ten, card.Diamonds),
		// dealer draws to bust: 6+7=13, hits to 22
		c(card.Nine, card.Hearts),
	})
	types := recordTypes(g)

	require.True(t, g.Bet(money.FromInt(100)))
	require.True(t, g.Split())
	require.True(t, g.DoubleDown()) // hand0: 8+3=11 -> double, draws 10 -> 21
	require.True(t, g.Stand())      // hand1: 8+7=15 -> stand

	wins := 0
	for _, ty := range *types {
		if ty == event.PlayerWins {
			wins++
		}
	}
	require.Equal(t, 2, wins)
	require.Equal(t, "1300", g.Bankroll().String())
}

func TestSplitAcesFreezeBothHandsByDefault(t *testing.T) {
	rs := rules.VegasStrip() // HitSplitAces is false by default
	g := stack(rs, money.FromInt(1000), []card.Card{
		// opening deal: player A,A; dealer 6, hole 7
		c(card.Ace, card.Spades), c(card.Six, card.Clubs),
		c(card.Ace, card.Diamonds), c(card.Seven, card.Hearts),
		// split deals: one card to each new ace hand
		c(card.Nine, card.Spades), c(card.King, card.Clubs),
		// dealer draws to 17 and stands
		c(card.Four, card.Diamonds),
	})

	require.True(t, g.Bet(money.FromInt(100)))
	require.True(t, g.Split())

	// Both split-ace hands must be frozen, not just the first: the round
	// resolves immediately with no further player action on either hand.
	require.Equal(t, WaitingForBet, g.State())
	require.Len(t, g.Hands(), 2)
	require.Equal(t, "1200", g.Bankroll().String())
}

func TestInsuranceWins(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		c(card.Ten, card.Spades), c(card.Ace, card.Clubs),
		c(card.Ten, card.Diamonds), c(card.King, card.Hearts),
	})
	types := recordTypes(g)

	require.True(t, g.Bet(money.FromInt(100)))
	require.Equal(t, OfferingInsurance, g.State())

	fifty := money.FromInt(50)
	require.True(t, g.TakeInsurance(&fifty))

	require.Contains(t, *types, event.InsuranceWins)
	require.Contains(t, *types, event.PlayerLoses)
	require.Equal(t, "1000", g.Bankroll().String())
}

func TestLateSurrenderDisallowedMidHand(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), []card.Card{
		c(card.Five, card.Spades), c(card.Six, card.Clubs),
		c(card.Five, card.Diamonds), c(card.Seven, card.Hearts),
		c(card.Two, card.Spades),
	})
	types := recordTypes(g)

	require.True(t, g.Bet(money.FromInt(100)))
	require.True(t, g.Hit())
	require.False(t, g.Surrender())

	require.Contains(t, *types, event.InvalidAction)
}

func TestRejectedActionLeavesStateUnchanged(t *testing.T) {
	rs := rules.VegasStrip()
	g := stack(rs, money.FromInt(1000), nil)
	before := *g

	require.False(t, g.Hit()) // hit is illegal before any bet
	require.Equal(t, before.state, g.state)
	require.Equal(t, before.bankroll, g.bankroll)
}

func TestStateAdjacencyRejectsUnknownTransition(t *testing.T) {
	require.False(t, isValidTransition(WaitingForBet, PlayerTurn))
	require.True(t, isValidTransition(WaitingForBet, Dealing))
	require.True(t, isValidTransition(OfferingInsurance, Resolving))
	require.False(t, isValidTransition(GameOver, WaitingForBet))
}
