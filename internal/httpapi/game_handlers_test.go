package httpapi

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/swarm-blackjack/trainer/internal/audit"
	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/connmgr"
	"github.com/swarm-blackjack/trainer/internal/engine"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
	"github.com/swarm-blackjack/trainer/internal/session"
	"github.com/swarm-blackjack/trainer/internal/snapshot"
	"github.com/swarm-blackjack/trainer/internal/token"
)

func newTestServer() *Server {
	repo := NewGameRepo(session.NewInMemoryStore(), rules.VegasStrip(), money.FromInt(1000), time.Hour, audit.NoopRecorder{})
	mgr := connmgr.NewManager(8)
	hub := NewHub(mgr, repo)
	signer := token.NewSigner([]byte("test-secret"))
	return NewServer(repo, signer, hub, time.Hour)
}

func TestSessionIDFromSignsOnFirstRequest(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/game/state", nil)

	id := s.sessionIDFrom(w, r)
	if id == "" {
		t.Fatal("expected a minted session id")
	}
	tok := w.Header().Get(sessionHeader)
	if tok == "" {
		t.Fatal("expected a signed token in the response header")
	}

	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/game/state", nil)
	r2.Header.Set(sessionHeader, tok)
	id2 := s.sessionIDFrom(w2, r2)
	if id2 != id {
		t.Fatalf("expected the same session id on token round-trip, got %q want %q", id2, id)
	}
}

func TestSessionIDFromRejectsTamperedToken(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/game/state", nil)
	r.Header.Set(sessionHeader, "not-a-real-token")

	id := s.sessionIDFrom(w, r)
	if id == "" {
		t.Fatal("expected a freshly minted id when the token is unreadable")
	}
}

func TestSessionIDFromRejectsExpiredToken(t *testing.T) {
	s := newTestServer()
	s.sessionTTL = time.Millisecond

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/game/state", nil)
	id := s.sessionIDFrom(w, r)
	tok := w.Header().Get(sessionHeader)

	time.Sleep(5 * time.Millisecond)

	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/game/state", nil)
	r2.Header.Set(sessionHeader, tok)
	id2 := s.sessionIDFrom(w2, r2)
	if id2 == id {
		t.Fatal("expired token should not resolve to the original session id")
	}
}

// gameInState builds a deterministic engine already in state, via the same
// snapshot.Deserialize path the session store uses — sidestepping the
// shoe's real randomness so the test never depends on what gets dealt.
func gameInState(t *testing.T, state engine.State) *engine.Game {
	t.Helper()
	rv := snapshot.RulesView{
		NumDecks: 6, Penetration: 0.75, MinBet: "10", MaxBet: "1000",
		BlackjackPayout: 1.5, DoubleAfterSplit: true, DoubleOn: "any",
		MaxSplits: 4, Surrender: "late", InsuranceAllowed: true, DealerPeeks: true,
	}
	snap := snapshot.Snapshot{
		State:            string(state),
		Bankroll:         "1000",
		InsuranceBet:     "0",
		CurrentHandIndex: 0,
		ShoeCards:        []card.Card{card.New(card.Two, card.Spades)},
		NumDecks:         6,
		Penetration:      0.75,
		PlayerHands: []snapshot.HandView{
			{Cards: []card.Card{card.New(card.Ten, card.Spades), card.New(card.Six, card.Clubs)}, Bet: "50"},
		},
		DealerHand: snapshot.HandView{
			Cards: []card.Card{card.New(card.Six, card.Hearts), card.New(card.Seven, card.Diamonds)},
			Bet:   "0",
		},
		Rules: rv,
	}
	g, err := snapshot.Deserialize(snap, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return g
}

func TestMaskedDealerHandHidesHoleCardDuringPlayerTurn(t *testing.T) {
	g := gameInState(t, engine.PlayerTurn)
	resp := responseFor("sess", g)
	if len(resp.DealerHand.Cards) != 2 {
		t.Fatalf("expected two dealer cards in the view, got %d", len(resp.DealerHand.Cards))
	}
	if resp.DealerHand.Cards[1] != hiddenCard {
		t.Fatalf("expected the hole card masked in PLAYER_TURN, got %+v", resp.DealerHand.Cards[1])
	}
	if resp.DealerHand.Cards[0] == hiddenCard {
		t.Fatal("the dealer's up-card must never be masked")
	}
}

func TestMaskedDealerHandHidesHoleCardDuringOfferingInsurance(t *testing.T) {
	g := gameInState(t, engine.OfferingInsurance)
	resp := responseFor("sess", g)
	if resp.DealerHand.Cards[1] != hiddenCard {
		t.Fatalf("expected the hole card masked in OFFERING_INSURANCE, got %+v", resp.DealerHand.Cards[1])
	}
}

func TestMaskedDealerHandRevealsAtRoundComplete(t *testing.T) {
	g := gameInState(t, engine.RoundComplete)
	resp := responseFor("sess", g)
	if resp.DealerHand.Cards[1] == hiddenCard {
		t.Fatal("dealer hole card should not be masked once the round is complete")
	}
	if resp.DealerHand.Cards[1] != card.New(card.Seven, card.Diamonds) {
		t.Fatalf("expected the real hole card, got %+v", resp.DealerHand.Cards[1])
	}
}

// The persistence serializer is a distinct path from the transport
// response and must never mask, regardless of state.
func TestSnapshotSerializeNeverMasks(t *testing.T) {
	g := gameInState(t, engine.PlayerTurn)
	snap := snapshot.Serialize(g)
	if snap.DealerHand.Cards[1] != card.New(card.Seven, card.Diamonds) {
		t.Fatalf("persistence snapshot must keep the full dealer hand, got %+v", snap.DealerHand.Cards[1])
	}
}

func TestHandleActionAcceptsDeclineInsuranceOverREST(t *testing.T) {
	s := newTestServer()
	id := "insure-decline-sess"
	if err := s.repo.Save(context.Background(), id, gameInState(t, engine.OfferingInsurance)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	body := strings.NewReader(`{"action":"decline_insurance"}`)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/game/action", body)
	r.Header.Set(sessionHeader, s.signer.Sign(id))
	s.HandleAction(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	g, err := s.repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.State() == engine.OfferingInsurance {
		t.Fatal("decline_insurance over REST should have advanced past OFFERING_INSURANCE")
	}
}

func TestHandleActionTakeInsuranceRejectsMalformedAmount(t *testing.T) {
	s := newTestServer()
	id := "insure-bad-amount-sess"
	if err := s.repo.Save(context.Background(), id, gameInState(t, engine.OfferingInsurance)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	body := strings.NewReader(`{"action":"take_insurance","amount":"not-a-number"}`)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/game/action", body)
	r.Header.Set(sessionHeader, s.signer.Sign(id))
	s.HandleAction(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed insurance amount, got %d", w.Code)
	}
	g, err := s.repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.State() != engine.OfferingInsurance {
		t.Fatal("a rejected take_insurance must not change engine state")
	}
}
