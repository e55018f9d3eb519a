package connmgr

import "testing"

func TestConnectEnqueueDeliversMessage(t *testing.T) {
	m := NewManager(2)
	outbox := m.Connect("sess-1", nil)

	if !m.Enqueue("sess-1", Message("hello")) {
		t.Fatal("enqueue on a connected session should succeed")
	}
	select {
	case msg := <-outbox:
		if string(msg) != "hello" {
			t.Fatalf("expected \"hello\", got %q", msg)
		}
	default:
		t.Fatal("expected a message to be immediately available")
	}
}

func TestEnqueueOnUnknownSessionFails(t *testing.T) {
	m := NewManager(2)
	if m.Enqueue("ghost", Message("x")) {
		t.Fatal("enqueue on an unconnected session should fail")
	}
}

func TestEnqueueDropsOnOverflow(t *testing.T) {
	m := NewManager(1)
	m.Connect("sess-1", nil)

	if !m.Enqueue("sess-1", Message("first")) {
		t.Fatal("first enqueue should succeed")
	}
	if m.Enqueue("sess-1", Message("second")) {
		t.Fatal("second enqueue should be dropped once the buffer is full")
	}
}

func TestDisconnectRetainsEngineUntilForget(t *testing.T) {
	m := NewManager(2)
	m.Connect("sess-1", nil)
	m.Disconnect("sess-1")

	if _, ok := m.Engine("sess-1"); !ok {
		t.Fatal("the engine reference should survive Disconnect")
	}
	if m.Enqueue("sess-1", Message("x")) {
		t.Fatal("a disconnected session should have no deliverable channel")
	}

	m.Forget("sess-1")
	if _, ok := m.Engine("sess-1"); ok {
		t.Fatal("Forget should drop the engine reference entirely")
	}
}

func TestActiveSessionsTracksConnectAndDisconnect(t *testing.T) {
	m := NewManager(2)
	m.Connect("a", nil)
	m.Connect("b", nil)
	if m.ActiveSessions() != 2 {
		t.Fatalf("expected 2 active sessions, got %d", m.ActiveSessions())
	}
	m.Disconnect("a")
	if m.ActiveSessions() != 1 {
		t.Fatalf("expected 1 active session after disconnect, got %d", m.ActiveSessions())
	}
}
