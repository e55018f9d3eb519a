package httpapi

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/swarm-blackjack/trainer/internal/connmgr"
	"github.com/swarm-blackjack/trainer/internal/engine"
	"github.com/swarm-blackjack/trainer/internal/event"
	"github.com/swarm-blackjack/trainer/internal/metrics"
	"github.com/swarm-blackjack/trainer/internal/money"
)

// Hub is the WebSocket push transport (spec.md §6.2). gorilla/websocket is a
// deliberate departure from the teacher's Server-Sent-Events idiom
// (gateway/main.go's /events SSE handler): the training client sends
// in-band actions (bet, hit, reset_game) over the same connection it
// receives pushed events on, which SSE's server-to-client-only stream
// cannot carry.
type Hub struct {
	mgr      *connmgr.Manager
	repo     *GameRepo
	upgrader websocket.Upgrader
}

// NewHub builds a push-transport hub over mgr and repo.
func NewHub(mgr *connmgr.Manager, repo *GameRepo) *Hub {
	return &Hub{
		mgr:  mgr,
		repo: repo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// pushFrame is the wire envelope for every pushed event.
type pushFrame struct {
	EventType string     `json:"event_type"`
	Data      event.Data `json:"data"`
}

// Publish enqueues evt for delivery to sessionID's active connection, if
// any. Dropped frames (queue full, or no connection) are counted but never
// block the caller — the engine itself is never slowed by a slow client.
func (h *Hub) Publish(sessionID string, evt event.Event, _ *engine.Game) {
	raw, err := json.Marshal(pushFrame{EventType: string(evt.Type), Data: evt.Data})
	if err != nil {
		return
	}
	if !h.mgr.Enqueue(sessionID, raw) {
		metrics.EventsDropped.Inc()
	}
}

// inboundMessage is one client-to-server frame over the stream connection.
type inboundMessage struct {
	Action string          `json:"action"`
	Amount string          `json:"amount,omitempty"`
}

// HandleStream implements GET /game/stream, upgrading to a WebSocket and
// running the bidirectional session loop until the client disconnects.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	id := s.sessionIDFrom(w, r)
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[stream] upgrade failed for %s: %v", id, err)
		return
	}
	defer conn.Close()

	g, err := s.repo.Get(r.Context(), id)
	if err != nil {
		return
	}
	outbox := s.hub.mgr.Connect(id, g)
	metrics.ActiveSessions.Set(float64(s.hub.mgr.ActiveSessions()))
	defer func() {
		s.hub.mgr.Disconnect(id)
		metrics.ActiveSessions.Set(float64(s.hub.mgr.ActiveSessions()))
	}()

	_ = conn.WriteJSON(responseFor(id, g))

	done := make(chan struct{})
	go s.streamWriter(conn, outbox, done)
	s.streamReader(r, conn, id, g, done)
}

// streamWriter drains outbox and forwards frames to the client until the
// channel is closed (on Disconnect) or a write fails.
func (s *Server) streamWriter(conn *websocket.Conn, outbox <-chan connmgr.Message, done chan struct{}) {
	for {
		select {
		case msg, ok := <-outbox:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// streamReader reads inbound client frames, applies them to the engine, and
// writes back the resulting state — closing done when the connection ends.
func (s *Server) streamReader(r *http.Request, conn *websocket.Conn, id string, g *engine.Game, done chan struct{}) {
	defer close(done)
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		var accepted bool
		beforeLen := len(g.History())
		switch msg.Action {
		case "bet":
			amount, err := money.FromString(msg.Amount)
			if err != nil {
				_ = conn.WriteJSON(map[string]string{"error": "malformed bet amount"})
				continue
			}
			accepted = g.Bet(amount)
		case "hit":
			accepted = g.Hit()
		case "stand":
			accepted = g.Stand()
		case "double":
			accepted = g.DoubleDown()
		case "split":
			accepted = g.Split()
		case "surrender":
			accepted = g.Surrender()
		case "take_insurance":
			if msg.Amount == "" {
				accepted = g.TakeInsurance(nil)
				break
			}
			amount, err := money.FromString(msg.Amount)
			if err != nil {
				_ = conn.WriteJSON(map[string]string{"error": "malformed insurance amount"})
				continue
			}
			accepted = g.TakeInsurance(&amount)
		case "decline_insurance":
			accepted = g.DeclineInsurance()
		case "reset_game":
			g.Reset(g.Bankroll(), rand.New(rand.NewSource(time.Now().UnixNano())))
			accepted = true
		default:
			_ = conn.WriteJSON(map[string]string{"error": "unknown action"})
			continue
		}

		if accepted {
			for _, evt := range g.History()[beforeLen:] {
				metrics.EventsEmitted.WithLabelValues(string(evt.Type)).Inc()
				s.hub.Publish(id, evt, g)
			}
			if err := s.repo.Save(r.Context(), id, g); err != nil {
				continue
			}
		}
		_ = conn.WriteJSON(responseFor(id, g))
	}
}
