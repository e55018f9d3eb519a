package httpapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/swarm-blackjack/trainer/internal/audit"
	"github.com/swarm-blackjack/trainer/internal/engine"
	"github.com/swarm-blackjack/trainer/internal/event"
	"github.com/swarm-blackjack/trainer/internal/metrics"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
	"github.com/swarm-blackjack/trainer/internal/session"
	"github.com/swarm-blackjack/trainer/internal/snapshot"
)

// GameRepo is the read-through/write-through cache over the session store,
// grounded on original_source/api/routes/game.py's _get_game/_load_game/
// _save_game and mandated by spec.md §9: "Write-through is mandatory...
// Read-through on cold paths loads from store and repopulates the
// in-memory cache. The in-memory cache is advisory."
type GameRepo struct {
	store            session.Store
	rules            rules.RuleSet
	startingBankroll money.Amount
	ttl              time.Duration
	recorder         audit.Recorder

	mu    sync.Mutex
	cache map[string]*engine.Game
}

// NewGameRepo builds a repo backed by store, creating fresh engines with rs
// and startingBankroll for cold-start sessions. recorder is notified of
// every completed round (audit.NoopRecorder{} if audit logging is disabled).
func NewGameRepo(store session.Store, rs rules.RuleSet, startingBankroll money.Amount, ttl time.Duration, recorder audit.Recorder) *GameRepo {
	return &GameRepo{
		store:            store,
		rules:            rs,
		startingBankroll: startingBankroll,
		ttl:              ttl,
		recorder:         recorder,
		cache:            make(map[string]*engine.Game),
	}
}

// wireAudit subscribes a ROUND_ENDED listener on a freshly constructed
// engine, forwarding each completed round's bet/net/bankroll to the
// recorder. Called exactly once per engine instance, at construction, so
// reconnects and cache hits never double-subscribe.
func (r *GameRepo) wireAudit(sessionID string, g *engine.Game) {
	g.Subscribe(event.RoundEnded, func(evt event.Event) {
		metrics.RoundsCompleted.Inc()
		result, _ := evt.Data["result"].(string)
		bet := money.Zero
		for _, h := range g.Hands() {
			bet = bet.Add(h.Bet)
		}
		_ = r.recorder.RecordRound(context.Background(), sessionID, bet.String(), result, g.Bankroll().String())
	})
}

// record is the persisted-state layout of spec.md §6: {game, performance,
// created_at, last_activity}. Missing sub-keys are legal and imply
// defaults, so Performance and timestamps are all optional.
type record struct {
	Game         snapshot.Snapshot `json:"game"`
	Performance  map[string]any    `json:"performance,omitempty"`
	CreatedAt    int64             `json:"created_at,omitempty"`
	LastActivity int64             `json:"last_activity,omitempty"`
}

// Get returns the session's engine, creating one on cold start. Memory
// cache is checked first (advisory), then the store (read-through), then a
// fresh engine is created and saved.
func (r *GameRepo) Get(ctx context.Context, sessionID string) (*engine.Game, error) {
	r.mu.Lock()
	if g, ok := r.cache[sessionID]; ok {
		r.mu.Unlock()
		return g, nil
	}
	r.mu.Unlock()

	data, ok, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ok {
		rec, ok := decodeRecord(data)
		if ok {
			g, err := snapshot.Deserialize(rec.Game, rand.New(rand.NewSource(time.Now().UnixNano())))
			if err == nil {
				r.wireAudit(sessionID, g)
				r.mu.Lock()
				r.cache[sessionID] = g
				r.mu.Unlock()
				return g, nil
			}
		}
	}

	g := engine.New(r.rules, r.startingBankroll, rand.New(rand.NewSource(time.Now().UnixNano())))
	r.wireAudit(sessionID, g)
	r.mu.Lock()
	r.cache[sessionID] = g
	r.mu.Unlock()
	if err := r.Save(ctx, sessionID, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Save serializes g and writes through to the store, stamping last_activity
// on every write and created_at only if previously absent, matching
// game.py's _save_game.
func (r *GameRepo) Save(ctx context.Context, sessionID string, g *engine.Game) error {
	existing, ok, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	createdAt := time.Now().Unix()
	if ok {
		if rec, ok := decodeRecord(existing); ok && rec.CreatedAt != 0 {
			createdAt = rec.CreatedAt
		}
	}

	rec := record{
		Game:         snapshot.Serialize(g),
		CreatedAt:    createdAt,
		LastActivity: time.Now().Unix(),
	}
	return r.store.Set(ctx, sessionID, encodeRecord(rec), r.ttl)
}

// Forget drops sessionID from the in-memory cache and the store, used by
// POST /game/new to start the session over with a fresh engine.
func (r *GameRepo) Forget(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.cache, sessionID)
	r.mu.Unlock()
	return r.store.Delete(ctx, sessionID)
}

// decodeRecord/encodeRecord round-trip through JSON so the same Data shape
// works identically whether the backend is the in-memory store (which keeps
// Go values as-is) or Redis (which marshals to bytes) — see
// internal/session's Store interface, which is backend-agnostic by design.
func decodeRecord(data session.Data) (record, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return record{}, false
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, false
	}
	return rec, true
}

func encodeRecord(rec record) session.Data {
	raw, err := json.Marshal(rec)
	if err != nil {
		return session.Data{}
	}
	var data session.Data
	_ = json.Unmarshal(raw, &data)
	return data
}
