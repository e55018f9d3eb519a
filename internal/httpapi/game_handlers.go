package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/swarm-blackjack/trainer/internal/apperr"
	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/engine"
	"github.com/swarm-blackjack/trainer/internal/metrics"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/snapshot"
	"github.com/swarm-blackjack/trainer/internal/token"
)

// hiddenCard is the transport-level sentinel for the dealer's masked hole
// card, mirroring original_source/api/websocket.py's
// {"rank": "?", "suit": "?"} placeholder.
var hiddenCard = card.Card{Rank: "?", Suit: "?"}

const sessionHeader = "X-Session-ID"

// Server holds the dependencies every HTTP handler needs: the game
// repository, the signer, and the push-transport manager.
type Server struct {
	repo       *GameRepo
	signer     *token.Signer
	hub        *Hub
	sessionTTL time.Duration
}

// NewServer wires the collaborators into one handler set. sessionTTL is the
// max age Unsign enforces on an incoming token — it should match the
// session store's own TTL (internal/config's SESSION_TTL).
func NewServer(repo *GameRepo, signer *token.Signer, hub *Hub, sessionTTL time.Duration) *Server {
	return &Server{repo: repo, signer: signer, hub: hub, sessionTTL: sessionTTL}
}

// sessionIDFrom reads X-Session-ID as a signed token, minting and signing a
// fresh session id if the header is absent, tampered with, signed under a
// different secret, or past sessionTTL — per spec.md §6.4, the raw id is
// never trusted on its own. The response always carries a freshly signed
// token for the resolved id, refreshing its expiry on every request.
func (s *Server) sessionIDFrom(w http.ResponseWriter, r *http.Request) string {
	id, ok := s.signer.Unsign(r.Header.Get(sessionHeader), s.sessionTTL)
	if !ok {
		id = token.NewSessionID()
	}
	w.Header().Set(sessionHeader, s.signer.Sign(id))
	return id
}

// HandleNew implements POST /game/new.
func (s *Server) HandleNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := s.sessionIDFrom(w, r)
	if err := s.repo.Forget(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responseFor(id, g))
}

// HandleState implements GET /game/state.
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	id := s.sessionIDFrom(w, r)
	g, err := s.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responseFor(id, g))
}

type betRequest struct {
	Amount string `json:"amount"`
}

// HandleBet implements POST /game/bet.
func (s *Server) HandleBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := s.sessionIDFrom(w, r)
	g, err := s.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req betRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, apperr.DomainViolation("malformed bet request"))
		return
	}
	amount, err := money.FromString(req.Amount)
	if err != nil {
		writeError(w, apperr.DomainViolation("malformed bet amount"))
		return
	}

	s.applyAndRespond(w, r, id, g, func() bool { return g.Bet(amount) })
}

type actionRequest struct {
	Action string `json:"action"`
	Amount string `json:"amount,omitempty"`
}

// HandleAction implements POST /game/action.
func (s *Server) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := s.sessionIDFrom(w, r)
	g, err := s.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, apperr.DomainViolation("malformed action request"))
		return
	}

	var op func() bool
	switch req.Action {
	case "hit":
		op = g.Hit
	case "stand":
		op = g.Stand
	case "double":
		op = g.DoubleDown
	case "split":
		op = g.Split
	case "surrender":
		op = g.Surrender
	case "decline_insurance":
		op = g.DeclineInsurance
	case "take_insurance":
		if req.Amount == "" {
			op = func() bool { return g.TakeInsurance(nil) }
			break
		}
		amount, err := money.FromString(req.Amount)
		if err != nil {
			writeError(w, apperr.DomainViolation("malformed insurance amount"))
			return
		}
		op = func() bool { return g.TakeInsurance(&amount) }
	default:
		writeError(w, apperr.DomainViolation("unknown action %q", req.Action))
		return
	}

	s.applyAndRespond(w, r, id, g, op)
}

// applyAndRespond runs op, publishes the resulting event history to the push
// hub, persists via write-through, then responds with the new snapshot —
// or a 400 if op rejected.
func (s *Server) applyAndRespond(w http.ResponseWriter, r *http.Request, id string, g *engine.Game, op func() bool) {
	beforeLen := len(g.History())
	accepted := op()
	if accepted {
		for _, evt := range g.History()[beforeLen:] {
			metrics.EventsEmitted.WithLabelValues(string(evt.Type)).Inc()
			s.hub.Publish(id, evt, g)
		}
		if err := s.repo.Save(r.Context(), id, g); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, responseFor(id, g))
		return
	}
	writeJSON(w, http.StatusBadRequest, responseFor(id, g))
}

// gameStateResponse mirrors original_source/api/schemas.py's
// GameStateResponse, including the derived legality predicates.
type gameStateResponse struct {
	SessionID        string                `json:"session_id"`
	State            string                `json:"state"`
	Bankroll         string                `json:"bankroll"`
	InsuranceBet     string                `json:"insurance_bet"`
	CurrentHandIndex int                   `json:"current_hand_index"`
	PlayerHands      []snapshot.HandView   `json:"player_hands"`
	DealerHand       snapshot.HandView     `json:"dealer_hand"`
	CanHit           bool                  `json:"can_hit"`
	CanStand         bool                  `json:"can_stand"`
	CanDouble        bool                  `json:"can_double"`
	CanSplit         bool                  `json:"can_split"`
	CanSurrender     bool                  `json:"can_surrender"`
	CanInsure        bool                  `json:"can_insure"`
}

func responseFor(sessionID string, g *engine.Game) gameStateResponse {
	snap := snapshot.Serialize(g)
	return gameStateResponse{
		SessionID:        sessionID,
		State:            snap.State,
		Bankroll:         snap.Bankroll,
		InsuranceBet:     snap.InsuranceBet,
		CurrentHandIndex: snap.CurrentHandIndex,
		PlayerHands:      snap.PlayerHands,
		DealerHand:       maskedDealerHand(g, snap.DealerHand),
		CanHit:           g.CanHit(),
		CanStand:         g.CanStand(),
		CanDouble:        g.CanDouble(),
		CanSplit:         g.CanSplit(),
		CanSurrender:     g.CanSurrender(),
		CanInsure:        g.CanInsure(),
	}
}

// maskedDealerHand replaces the hole card (the second card dealt to the
// dealer) with hiddenCard while the round is in PLAYER_TURN or
// OFFERING_INSURANCE, per spec.md §6/§9's hidden-hole-card requirement.
// This is distinct from internal/snapshot.Serialize, which is the
// persistence serializer and always keeps the full dealer hand — masking
// only ever happens at the transport boundary.
func maskedDealerHand(g *engine.Game, view snapshot.HandView) snapshot.HandView {
	if g.State() != engine.PlayerTurn && g.State() != engine.OfferingInsurance {
		return view
	}
	if len(view.Cards) < 2 {
		return view
	}
	masked := view
	masked.Cards = append([]card.Card(nil), view.Cards...)
	masked.Cards[1] = hiddenCard
	return masked
}
