package snapshot

import (
	"math/rand"
	"testing"

	"github.com/swarm-blackjack/trainer/internal/engine"
	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
)

// TestSerializeDeserializeRoundTrip exercises invariant 4: serializing a
// mid-round engine and deserializing the result must reproduce the same
// observable state.
func TestSerializeDeserializeRoundTrip(t *testing.T) {
	g := engine.New(rules.VegasStrip(), money.FromInt(500), rand.New(rand.NewSource(1)))
	if !g.Bet(money.FromInt(50)) {
		t.Fatal("bet should be accepted in a fresh game")
	}

	snap := Serialize(g)
	restored, err := Deserialize(snap, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.State() != g.State() {
		t.Fatalf("state mismatch: got %s, want %s", restored.State(), g.State())
	}
	if restored.Bankroll().String() != g.Bankroll().String() {
		t.Fatalf("bankroll mismatch: got %s, want %s", restored.Bankroll(), g.Bankroll())
	}
	if len(restored.Hands()) != len(g.Hands()) {
		t.Fatalf("hand count mismatch: got %d, want %d", len(restored.Hands()), len(g.Hands()))
	}
	for i, h := range g.Hands() {
		rh := restored.Hands()[i]
		if rh.Bet.String() != h.Bet.String() {
			t.Fatalf("hand %d bet mismatch: got %s, want %s", i, rh.Bet, h.Bet)
		}
		if len(rh.Cards) != len(h.Cards) {
			t.Fatalf("hand %d card count mismatch: got %d, want %d", i, len(rh.Cards), len(h.Cards))
		}
	}

	reSnap := Serialize(restored)
	if reSnap.Bankroll != snap.Bankroll || reSnap.State != snap.State {
		t.Fatal("re-serializing the restored engine should reproduce the original snapshot fields")
	}
}
