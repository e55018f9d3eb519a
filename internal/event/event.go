// Package event implements the typed event record and the emitter with
// typed+wildcard subscription, grounded on
// original_source/core/game/events.py's EventType/GameEvent/EventEmitter.
package event

import "time"

// Type enumerates spec.md §4.3's event taxonomy exactly.
type Type string

const (
	RoundStarted Type = "ROUND_STARTED"
	RoundEnded   Type = "ROUND_ENDED"
	GameEnded    Type = "GAME_ENDED"

	ShoeShuffled Type = "SHOE_SHUFFLED"
	CardDealt    Type = "CARD_DEALT"

	InsuranceOffered Type = "INSURANCE_OFFERED"
	InsuranceTaken   Type = "INSURANCE_TAKEN"
	InsuranceDeclined Type = "INSURANCE_DECLINED"
	InsuranceWins    Type = "INSURANCE_WINS"
	InsuranceLoses   Type = "INSURANCE_LOSES"

	BetPlaced       Type = "BET_PLACED"
	PlayerHit       Type = "PLAYER_HIT"
	PlayerStand     Type = "PLAYER_STAND"
	PlayerDouble    Type = "PLAYER_DOUBLE"
	PlayerSplit     Type = "PLAYER_SPLIT"
	PlayerSurrender Type = "PLAYER_SURRENDER"
	PlayerBlackjack Type = "PLAYER_BLACKJACK"
	PlayerBusts     Type = "PLAYER_BUSTS"

	DealerReveals   Type = "DEALER_REVEALS"
	DealerHits      Type = "DEALER_HITS"
	DealerStands    Type = "DEALER_STANDS"
	DealerBusts     Type = "DEALER_BUSTS"
	DealerBlackjack Type = "DEALER_BLACKJACK"

	PlayerWins Type = "PLAYER_WINS"
	PlayerLoses Type = "PLAYER_LOSES"
	Push       Type = "PUSH"

	InvalidAction      Type = "INVALID_ACTION"
	InsufficientFunds   Type = "INSUFFICIENT_FUNDS"
)

// Data is the event payload, an opaque string-keyed map of JSON-serializable
// values, per spec.md §3.
type Data map[string]any

// Event is an immutable (type, data, timestamp) record.
type Event struct {
	Type      Type      `json:"event_type"`
	Data      Data      `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler receives emitted events. Handlers must never call back into the
// emitting engine synchronously — see spec.md §9's reentrancy rule; any
// handler that needs to act on the engine must enqueue and process after
// the current operation returns.
type Handler func(Event)

// Emitter is a typed+wildcard pub/sub dispatcher with a bounded history.
// Subscriber references are non-owning: the emitter never closes or
// otherwise manages handler lifetime beyond the subscription list.
type Emitter struct {
	handlers   map[Type][]Handler
	wildcard   []Handler
	history    []Event
	maxHistory int
}

// NewEmitter constructs an emitter retaining at most maxHistory past events.
func NewEmitter(maxHistory int) *Emitter {
	return &Emitter{
		handlers:   make(map[Type][]Handler),
		maxHistory: maxHistory,
	}
}

// Subscribe registers h for events of the given type.
func (e *Emitter) Subscribe(t Type, h Handler) {
	e.handlers[t] = append(e.handlers[t], h)
}

// SubscribeAll registers h for every event type (wildcard subscription).
func (e *Emitter) SubscribeAll(h Handler) {
	e.wildcard = append(e.wildcard, h)
}

// Emit builds an Event from t and data, records it in history, then
// delivers it synchronously to typed subscribers first, then wildcard
// subscribers, preserving emission order within one call.
func (e *Emitter) Emit(t Type, data Data) {
	evt := Event{Type: t, Data: data, Timestamp: now()}
	e.history = append(e.history, evt)
	if e.maxHistory > 0 && len(e.history) > e.maxHistory {
		e.history = e.history[len(e.history)-e.maxHistory:]
	}
	for _, h := range e.handlers[t] {
		h(evt)
	}
	for _, h := range e.wildcard {
		h(evt)
	}
}

// History returns a copy of the retained event history.
func (e *Emitter) History() []Event {
	out := make([]Event, len(e.history))
	copy(out, e.history)
	return out
}

// ClearHistory discards all retained history without affecting subscriptions.
func (e *Emitter) ClearHistory() {
	e.history = nil
}

var now = time.Now
