// Package connmgr implements the per-session push-channel handle, bounded
// event queue, and backpressure policy (spec.md §4.12). Grounded on two
// converging sources: the teacher's buffered-channel-plus-select/default
// drop idiom (game-state/main.go's Table.clients,
// gateway/main.go's ObservabilityBus.clients) for the Go concurrency
// mechanics, and original_source/api/websocket.py's ConnectionManager
// (asyncio.Queue with put_nowait/QueueFull silently dropped, and
// disconnect() retaining the engine for reconnection) for the behavioral
// contract.
package connmgr

import (
	"sync"

	"github.com/swarm-blackjack/trainer/internal/engine"
)

// Message is one outbound push-transport frame, opaque to the manager —
// callers marshal to their own wire format before Enqueue.
type Message []byte

// Manager tracks connections per session. It is safe for concurrent use.
//
// outboxes and engines are kept in separate maps deliberately: Disconnect
// removes the channel (nothing left to write to) but leaves the engine
// entry in place, so a reconnecting client finds the same engine instance
// rather than a repo-level cold load — matching websocket.py's
// disconnect(), which drops the socket but keeps the session's game alive.
type Manager struct {
	mu       sync.RWMutex
	outboxes map[string]chan Message
	engines  map[string]*engine.Game
	capacity int
}

// NewManager builds a manager whose per-session event queues hold at most
// capacity messages before overflow drops the newest.
func NewManager(capacity int) *Manager {
	return &Manager{
		outboxes: make(map[string]chan Message),
		engines:  make(map[string]*engine.Game),
		capacity: capacity,
	}
}

// Connect registers sessionID with the given engine (or nil, if the engine
// is held elsewhere) and returns the outbox channel a writer goroutine
// should drain. If the session already has a channel, it is replaced.
func (m *Manager) Connect(sessionID string, g *engine.Game) <-chan Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	outbox := make(chan Message, m.capacity)
	m.outboxes[sessionID] = outbox
	m.engines[sessionID] = g
	return outbox
}

// Disconnect removes the channel but retains the engine for reconnection,
// per spec.md §4.12 and websocket.py's disconnect().
func (m *Manager) Disconnect(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outbox, ok := m.outboxes[sessionID]
	if !ok {
		return
	}
	close(outbox)
	delete(m.outboxes, sessionID)
}

// Engine returns the held engine instance for sessionID, if any — available
// even after Disconnect, until the session is forgotten entirely via Forget.
func (m *Manager) Engine(sessionID string) (*engine.Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.engines[sessionID]
	return g, ok
}

// Forget drops sessionID's engine reference entirely. The server's handlers
// do not call it; a disconnected session's engine stays held until Forget.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, sessionID)
}

// Enqueue pushes msg onto sessionID's queue. On overflow the newest event is
// dropped — the engine is never blocked. Returns false if the session has
// no active connection (the event is simply not delivered; the engine is
// still the source of truth and a future get_state re-query recovers it).
func (m *Manager) Enqueue(sessionID string, msg Message) bool {
	// The read lock is held through the non-blocking send so Disconnect
	// cannot close the channel between the lookup and the send.
	m.mu.RLock()
	defer m.mu.RUnlock()
	outbox, ok := m.outboxes[sessionID]
	if !ok {
		return false
	}
	select {
	case outbox <- msg:
		return true
	default:
		return false
	}
}

// ActiveSessions returns the count of currently connected sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.outboxes)
}
