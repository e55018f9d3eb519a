// Command server runs the training-table HTTP and WebSocket surface: REST
// round control, a push-transport stream, and the standalone training
// endpoints (count-drill, house-edge, kelly-bet, session-stats).
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swarm-blackjack/trainer/internal/audit"
	"github.com/swarm-blackjack/trainer/internal/config"
	"github.com/swarm-blackjack/trainer/internal/connmgr"
	"github.com/swarm-blackjack/trainer/internal/httpapi"
	"github.com/swarm-blackjack/trainer/internal/metrics"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/session"
	"github.com/swarm-blackjack/trainer/internal/token"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("[trainer] starting")

	// ── Config ──────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[trainer] config: %v", err)
	}

	// ── Session store ───────────────────────────────────────────────────
	store := session.SelectBackend(cfg.Redis.Addr(), cfg.Redis.DB, cfg.Redis.Password)
	log.Printf("[trainer] session backend: %T", store)

	// ── Audit log (optional) ────────────────────────────────────────────
	var recorder audit.Recorder = audit.NoopRecorder{}
	if cfg.AuditDBURL != "" {
		db, err := audit.Open(cfg.AuditDBURL)
		if err != nil {
			log.Fatalf("[trainer] audit db: %v", err)
		}
		if err := db.Migrate(); err != nil {
			log.Fatalf("[trainer] audit migrate: %v", err)
		}
		recorder = db
		log.Printf("[trainer] audit log enabled")
	}

	// ── Collaborators ────────────────────────────────────────────────────
	signer := token.NewSigner(cfg.SecretKey)
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Second
	repo := httpapi.NewGameRepo(store, cfg.Game, startingBankroll(), sessionTTL, recorder)
	mgr := connmgr.NewManager(64)
	hub := httpapi.NewHub(mgr, repo)
	srv := httpapi.NewServer(repo, signer, hub, sessionTTL)

	// ── Routes ───────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/game/new", srv.HandleNew)
	mux.HandleFunc("/game/state", srv.HandleState)
	mux.HandleFunc("/game/bet", srv.HandleBet)
	mux.HandleFunc("/game/action", srv.HandleAction)
	mux.HandleFunc("/game/stream", srv.HandleStream)

	mux.HandleFunc("/training/count-drill", srv.HandleCountDrill)
	mux.HandleFunc("/training/house-edge", srv.HandleHouseEdge)
	mux.HandleFunc("/training/kelly-bet", srv.HandleKellyBet)
	mux.HandleFunc("/training/session-stats", srv.HandleSessionStats)

	handler := httpapi.CORSMiddleware(cfg.CORS, httpapi.RateLimitMiddleware(cfg.RateLimit, mux))

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("[trainer] listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}

func startingBankroll() money.Amount {
	return money.FromInt(1000)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
