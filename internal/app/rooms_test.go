package app

import (
	"errors"
	"testing"

	"github.com/edge2meet/signaling/internal/domain"
)

func newTestCoordinator() *Coordinator {
	return NewCoordinator(NewRegistry(), NewHistory())
}

func TestJoinLeaveCountSequence(t *testing.T) {
	c := newTestCoordinator()

	resA, err := c.Join("r1", "a", "Alice", &fakeConn{})
	if err != nil {
		t.Fatalf("join a: %v", err)
	}
	if resA.Count != 1 {
		t.Errorf("count after first join = %d, want 1", resA.Count)
	}
	if len(resA.History) != 0 {
		t.Errorf("first joiner got non-empty history: %v", resA.History)
	}

	resB, err := c.Join("r1", "b", "Bob", &fakeConn{})
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	if resB.Count != 2 {
		t.Errorf("count after second join = %d, want 2", resB.Count)
	}

	left, ok := c.Leave("r1", "b")
	if !ok {
		t.Fatal("leave b rejected")
	}
	if left.Count != 1 {
		t.Errorf("count after leave = %d, want 1", left.Count)
	}
}

func TestJoinRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name   string
		room   string
		userID string
	}{
		{"empty room", "", "u1"},
		{"whitespace room", "   ", "u1"},
		{"empty user", "r1", ""},
		{"whitespace user", "r1", "\t "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCoordinator()
			_, err := c.Join(tt.room, tt.userID, "Name", &fakeConn{})
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if len(c.Rooms()) != 0 {
				t.Error("rejected join mutated state")
			}
		})
	}
}

func TestJoinDefaultsUsername(t *testing.T) {
	c := newTestCoordinator()
	res, err := c.Join("r1", "abcdef123456", "  ", &fakeConn{})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if res.Participant.Username != "User abcdef" {
		t.Errorf("default username = %q", res.Participant.Username)
	}
}

func TestStaleLeaveIgnoredAfterRejoin(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.Join("r1", "a", "Alice", &fakeConn{}); err != nil {
		t.Fatal(err)
	}
	// Same identity rejoins a different room before the old leave lands.
	if _, err := c.Join("r2", "a", "Alice", &fakeConn{}); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Leave("r1", "a"); ok {
		t.Error("stale leave for the old room was honored")
	}
	if got := c.Registry.CountInRoom("r2"); got != 1 {
		t.Errorf("stale leave removed the rejoined participant: count %d", got)
	}
}

func TestDisconnectResolvesByConnection(t *testing.T) {
	c := newTestCoordinator()
	conn := &fakeConn{}
	if _, err := c.Join("r1", "a", "Alice", conn); err != nil {
		t.Fatal(err)
	}

	res, ok := c.Disconnect(conn)
	if !ok {
		t.Fatal("disconnect did not resolve the connection")
	}
	if res.Participant.ID != "a" || res.Count != 0 {
		t.Errorf("unexpected leave result: %+v", res)
	}

	// A second disconnect for the same handle is silently ignored.
	if _, ok := c.Disconnect(conn); ok {
		t.Error("duplicate disconnect was not ignored")
	}
}

func TestHistoryEvictedWhenRoomEmpties(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.Join("r1", "a", "Alice", &fakeConn{}); err != nil {
		t.Fatal(err)
	}
	c.History.Append("r1", domain.ChatEntry{Message: "hi"})

	if _, ok := c.Leave("r1", "a"); !ok {
		t.Fatal("leave rejected")
	}

	res, err := c.Join("r1", "b", "Bob", &fakeConn{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.History) != 0 {
		t.Errorf("history survived an empty room: %v", res.History)
	}
}

func TestLateJoinerSeesHistory(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.Join("r1", "a", "Alice", &fakeConn{}); err != nil {
		t.Fatal(err)
	}
	c.History.Append("r1", domain.ChatEntry{UserID: "a", Username: "Alice", Message: "hi"})

	res, err := c.Join("r1", "b", "Bob", &fakeConn{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.History) != 1 || res.History[0].Message != "hi" {
		t.Errorf("late joiner history wrong: %v", res.History)
	}
}
