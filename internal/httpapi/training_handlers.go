package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/swarm-blackjack/trainer/internal/apperr"
	"github.com/swarm-blackjack/trainer/internal/card"
	"github.com/swarm-blackjack/trainer/internal/rules"
	"github.com/swarm-blackjack/trainer/internal/statistics"
)

// Training endpoints wrap internal/statistics's pure functions behind a
// thin HTTP surface — new functionality the distillation dropped (spec.md
// scopes the engine only), supplemented per SPEC_FULL.md §12.

type countDrillRequest struct {
	Cards []card.Card `json:"cards"`
}

type countDrillResponse struct {
	RunningCount int    `json:"running_count"`
	TrueCount    string `json:"true_count"`
}

// HandleCountDrill implements POST /training/count-drill, tallying a Hi-Lo
// running count over the submitted card sequence.
func (s *Server) HandleCountDrill(w http.ResponseWriter, r *http.Request) {
	var req countDrillRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, apperr.DomainViolation("malformed count-drill request"))
		return
	}
	running := 0
	for _, c := range req.Cards {
		running += statistics.HiLoTag(c)
	}
	decksRemaining := decimal.NewFromFloat(float64(len(req.Cards)) / 52.0)
	remaining := decimal.NewFromInt(6).Sub(decksRemaining)
	if remaining.IsNegative() {
		remaining = decimal.NewFromFloat(0.25)
	}
	tc := statistics.TrueCount(running, remaining)
	writeJSON(w, http.StatusOK, countDrillResponse{RunningCount: running, TrueCount: tc.StringFixed(2)})
}

type houseEdgeRequest struct {
	NumDecks         int     `json:"num_decks"`
	DealerHitsSoft17 bool    `json:"dealer_hits_soft_17"`
	DoubleAfterSplit bool    `json:"double_after_split"`
	ResplitAces      bool    `json:"resplit_aces"`
	Surrender        string  `json:"surrender"`
	BlackjackPayout  float64 `json:"blackjack_payout"`
}

type houseEdgeResponse struct {
	HouseEdge string `json:"house_edge"`
}

// HandleHouseEdge implements POST /training/house-edge.
func (s *Server) HandleHouseEdge(w http.ResponseWriter, r *http.Request) {
	var req houseEdgeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, apperr.DomainViolation("malformed house-edge request"))
		return
	}
	rs := rules.VegasStrip()
	if req.NumDecks > 0 {
		rs.NumDecks = req.NumDecks
	}
	rs.DealerHitsSoft17 = req.DealerHitsSoft17
	rs.DoubleAfterSplit = req.DoubleAfterSplit
	rs.ResplitAces = req.ResplitAces
	if req.Surrender != "" {
		rs.Surrender = rules.Surrender(req.Surrender)
	}
	if req.BlackjackPayout > 0 {
		rs.BlackjackPayout = req.BlackjackPayout
	}
	edge := statistics.HouseEdge(rs)
	writeJSON(w, http.StatusOK, houseEdgeResponse{HouseEdge: edge.StringFixed(5)})
}

type kellyBetRequest struct {
	Bankroll string  `json:"bankroll"`
	Edge     float64 `json:"edge"`
	Variance float64 `json:"variance"`
}

type kellyBetResponse struct {
	RecommendedBet string `json:"recommended_bet"`
	Fraction       string `json:"fraction"`
}

// HandleKellyBet implements POST /training/kelly-bet.
func (s *Server) HandleKellyBet(w http.ResponseWriter, r *http.Request) {
	var req kellyBetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, apperr.DomainViolation("malformed kelly-bet request"))
		return
	}
	bankroll, err := decimal.NewFromString(req.Bankroll)
	if err != nil {
		writeError(w, apperr.DomainViolation("malformed bankroll"))
		return
	}
	edge := decimal.NewFromFloat(req.Edge)
	variance := decimal.NewFromFloat(req.Variance)
	fraction := statistics.KellyFraction(edge, variance)
	bet := statistics.KellyBetSize(bankroll, edge, variance)
	writeJSON(w, http.StatusOK, kellyBetResponse{
		RecommendedBet: bet.StringFixed(2),
		Fraction:       fraction.StringFixed(4),
	})
}

type sessionStatsRequest struct {
	Rounds []statistics.RoundResult `json:"rounds"`
}

type sessionStatsResponse struct {
	RoundsPlayed  int    `json:"rounds_played"`
	TotalWagered  string `json:"total_wagered"`
	TotalNet      string `json:"total_net"`
	BiggestWin    string `json:"biggest_win"`
	BiggestLoss   string `json:"biggest_loss"`
	CurrentStreak int    `json:"current_streak"`
}

// HandleSessionStats implements POST /training/session-stats, aggregating a
// client-submitted round-result history.
func (s *Server) HandleSessionStats(w http.ResponseWriter, r *http.Request) {
	var req sessionStatsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, apperr.DomainViolation("malformed session-stats request"))
		return
	}
	stats := statistics.Aggregate(req.Rounds)
	writeJSON(w, http.StatusOK, sessionStatsResponse{
		RoundsPlayed:  stats.RoundsPlayed,
		TotalWagered:  stats.TotalWagered.String(),
		TotalNet:      stats.TotalNet.String(),
		BiggestWin:    stats.BiggestWin.String(),
		BiggestLoss:   stats.BiggestLoss.String(),
		CurrentStreak: stats.CurrentStreak,
	})
}
