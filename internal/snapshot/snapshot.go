// Package snapshot implements the engine serializer: a full round snapshot
// as a portable struct, with round-trip equality guaranteed. Grounded on
// original_source/api/routes/game.py's _serialize_game/_deserialize_game,
// kept as free functions operating on engine.Game rather than engine
// methods, per SPEC_FULL.md §4.
package snapshot

import (
	"math/rand"

	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/engine"
	"github.com/swarm-blackjack/trainer/internal/hand"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
)

// HandView is the portable form of a hand.
type HandView struct {
	Cards         []card.Card `json:"cards"`
	Bet           string      `json:"bet"`
	IsDoubled     bool        `json:"is_doubled"`
	IsSplitHand   bool        `json:"is_split_hand"`
	IsSurrendered bool        `json:"is_surrendered"`
}

// RulesView is the portable form of a RuleSet — every field spelled out, per
// spec.md §4.11.
type RulesView struct {
	NumDecks         int     `json:"num_decks"`
	Penetration      float64 `json:"penetration"`
	MinBet           string  `json:"min_bet"`
	MaxBet           string  `json:"max_bet"`
	DealerHitsSoft17 bool    `json:"dealer_hits_soft_17"`
	BlackjackPayout  float64 `json:"blackjack_payout"`
	DoubleAfterSplit bool    `json:"double_after_split"`
	DoubleOn         string  `json:"double_on"`
	ResplitAces      bool    `json:"resplit_aces"`
	HitSplitAces     bool    `json:"hit_split_aces"`
	MaxSplits        int     `json:"max_splits"`
	Surrender        string  `json:"surrender"`
	InsuranceAllowed bool    `json:"insurance_allowed"`
	DealerPeeks      bool    `json:"dealer_peeks"`
}

// Snapshot is the full portable round state, spec.md §4.11.
type Snapshot struct {
	State            string     `json:"state"`
	Bankroll         string     `json:"bankroll"`
	InsuranceBet     string     `json:"insurance_bet"`
	CurrentHandIndex int        `json:"current_hand_index"`
	ShoeCards        []card.Card `json:"shoe_cards"`
	NumDecks         int        `json:"num_decks"`
	Penetration      float64    `json:"penetration"`
	PlayerHands      []HandView `json:"player_hands"`
	DealerHand       HandView   `json:"dealer_hand"`
	Rules            RulesView  `json:"rules"`
}

func handToView(h *hand.Hand) HandView {
	cards := make([]card.Card, len(h.Cards))
	copy(cards, h.Cards)
	return HandView{
		Cards:         cards,
		Bet:           h.Bet.String(),
		IsDoubled:     h.IsDoubled,
		IsSplitHand:   h.IsSplitHand,
		IsSurrendered: h.IsSurrendered,
	}
}

func viewToHand(v HandView) (*hand.Hand, error) {
	bet, err := money.FromString(v.Bet)
	if err != nil {
		return nil, err
	}
	h := hand.New(bet)
	h.Cards = append(h.Cards, v.Cards...)
	h.IsDoubled = v.IsDoubled
	h.IsSplitHand = v.IsSplitHand
	h.IsSurrendered = v.IsSurrendered
	return h, nil
}

func rulesToView(r rules.RuleSet) RulesView {
	return RulesView{
		NumDecks:         r.NumDecks,
		Penetration:      r.Penetration,
		MinBet:           r.MinBet.String(),
		MaxBet:           r.MaxBet.String(),
		DealerHitsSoft17: r.DealerHitsSoft17,
		BlackjackPayout:  r.BlackjackPayout,
		DoubleAfterSplit: r.DoubleAfterSplit,
		DoubleOn:         string(r.DoubleOn),
		ResplitAces:      r.ResplitAces,
		HitSplitAces:     r.HitSplitAces,
		MaxSplits:        r.MaxSplits,
		Surrender:        string(r.Surrender),
		InsuranceAllowed: r.InsuranceAllowed,
		DealerPeeks:      r.DealerPeeks,
	}
}

func viewToRules(v RulesView) (rules.RuleSet, error) {
	minBet, err := money.FromString(v.MinBet)
	if err != nil {
		return rules.RuleSet{}, err
	}
	maxBet, err := money.FromString(v.MaxBet)
	if err != nil {
		return rules.RuleSet{}, err
	}
	return rules.RuleSet{
		NumDecks:         v.NumDecks,
		Penetration:      v.Penetration,
		MinBet:           minBet,
		MaxBet:           maxBet,
		DealerHitsSoft17: v.DealerHitsSoft17,
		BlackjackPayout:  v.BlackjackPayout,
		DoubleAfterSplit: v.DoubleAfterSplit,
		DoubleOn:         rules.DoubleOn(v.DoubleOn),
		ResplitAces:      v.ResplitAces,
		HitSplitAces:     v.HitSplitAces,
		MaxSplits:        v.MaxSplits,
		Surrender:        rules.Surrender(v.Surrender),
		InsuranceAllowed: v.InsuranceAllowed,
		DealerPeeks:      v.DealerPeeks,
	}, nil
}

// Serialize produces the portable snapshot for g. The subscriber list is
// never included — subscribers are external, per spec.md §4.11.
func Serialize(g *engine.Game) Snapshot {
	hands := make([]HandView, len(g.Hands()))
	for i, h := range g.Hands() {
		hands[i] = handToView(h)
	}
	sh := g.Shoe()
	return Snapshot{
		State:            string(g.State()),
		Bankroll:         g.Bankroll().String(),
		InsuranceBet:     g.InsuranceBet().String(),
		CurrentHandIndex: g.CurrentHandIndex(),
		ShoeCards:        sh.RemainingCards(),
		NumDecks:         sh.NumDecks(),
		Penetration:      sh.Penetration(),
		PlayerHands:      hands,
		DealerHand:       handToView(g.DealerHand()),
		Rules:            rulesToView(g.Rules()),
	}
}

// Deserialize constructs a new engine with the snapshot's rules, then
// overwrites state from the snapshot — matching spec.md §4.11's "construct
// with the same rules, then overwrite state" contract. rng seeds the
// restored engine's shoe for any future shuffle (the shoe's current card
// order is restored exactly; rng only matters after the next shuffle).
func Deserialize(s Snapshot, rng *rand.Rand) (*engine.Game, error) {
	rs, err := viewToRules(s.Rules)
	if err != nil {
		return nil, err
	}
	bankroll, err := money.FromString(s.Bankroll)
	if err != nil {
		return nil, err
	}
	insuranceBet, err := money.FromString(s.InsuranceBet)
	if err != nil {
		return nil, err
	}

	g := engine.New(rs, bankroll, rng)

	hands := make([]*hand.Hand, len(s.PlayerHands))
	for i, v := range s.PlayerHands {
		h, err := viewToHand(v)
		if err != nil {
			return nil, err
		}
		hands[i] = h
	}
	dealerHand, err := viewToHand(s.DealerHand)
	if err != nil {
		return nil, err
	}

	g.Restore(engine.State(s.State), hands, s.CurrentHandIndex, insuranceBet, dealerHand, s.ShoeCards, rng)
	return g, nil
}
