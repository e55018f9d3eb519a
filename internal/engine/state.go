// State transition table. spec.md §9 prefers a compile-time adjacency
// constant plus explicit advance() logic over a transitions-library-driven
// machine (the kind original_source/core/game/engine.py builds via
// `transitions.Machine`); this is that constant.
package engine

// State is one of spec.md §3's GameState enum values.
type State string

const (
	WaitingForBet     State = "WAITING_FOR_BET"
	Dealing           State = "DEALING"
	OfferingInsurance State = "OFFERING_INSURANCE"
	PlayerTurn        State = "PLAYER_TURN"
	DealerTurn        State = "DEALER_TURN"
	Resolving         State = "RESOLVING"
	RoundComplete     State = "ROUND_COMPLETE"
	GameOver          State = "GAME_OVER"
)

// adjacency is spec.md §3's transition table, verbatim.
var adjacency = map[State]map[State]bool{
	WaitingForBet:     {Dealing: true, GameOver: true},
	Dealing:           {PlayerTurn: true, OfferingInsurance: true, Resolving: true},
	OfferingInsurance: {PlayerTurn: true, Resolving: true},
	PlayerTurn:        {PlayerTurn: true, DealerTurn: true, Resolving: true},
	DealerTurn:        {Resolving: true},
	Resolving:         {RoundComplete: true},
	RoundComplete:     {WaitingForBet: true, GameOver: true},
	GameOver:          {},
}

// isValidTransition reports whether to is a legal successor of from per the
// adjacency graph. The engine consults this before committing any
// transition; invariant 6 of spec.md §8 requires no transition ever occurs
// outside this graph.
func isValidTransition(from, to State) bool {
	return adjacency[from][to]
}
