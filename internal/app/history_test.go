package app

import (
	"fmt"
	"testing"

	"github.com/edge2meet/signaling/internal/domain"
)

func TestHistoryKeepsMostRecentHundred(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 150; i++ {
		h.Append("r1", domain.ChatEntry{
			UserID:  "u1",
			Message: fmt.Sprintf("msg-%d", i),
		})
	}

	snap := h.Snapshot("r1")
	if len(snap) != 100 {
		t.Fatalf("expected exactly 100 entries, got %d", len(snap))
	}
	if snap[0].Message != "msg-50" {
		t.Errorf("oldest surviving entry should be msg-50, got %s", snap[0].Message)
	}
	if snap[99].Message != "msg-149" {
		t.Errorf("newest entry should be msg-149, got %s", snap[99].Message)
	}
}

func TestHistoryPerRoomIsolation(t *testing.T) {
	h := NewHistory()
	h.Append("r1", domain.ChatEntry{Message: "one"})
	h.Append("r2", domain.ChatEntry{Message: "two"})

	if got := h.Snapshot("r1"); len(got) != 1 || got[0].Message != "one" {
		t.Errorf("r1 snapshot wrong: %v", got)
	}
	if got := h.Snapshot("r2"); len(got) != 1 || got[0].Message != "two" {
		t.Errorf("r2 snapshot wrong: %v", got)
	}
	if got := h.Snapshot("r3"); len(got) != 0 {
		t.Errorf("unknown room should be empty, got %v", got)
	}
}

func TestHistoryIgnoresEmptyRoom(t *testing.T) {
	h := NewHistory()
	h.Append("", domain.ChatEntry{Message: "lost"})
	if got := h.Snapshot(""); len(got) != 0 {
		t.Errorf("empty room id should store nothing, got %v", got)
	}
}

func TestHistoryDrop(t *testing.T) {
	h := NewHistory()
	h.Append("r1", domain.ChatEntry{Message: "one"})
	h.Drop("r1")
	if got := h.Snapshot("r1"); len(got) != 0 {
		t.Errorf("dropped room still has history: %v", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := NewHistory()
	h.Append("r1", domain.ChatEntry{Message: "one"})

	snap := h.Snapshot("r1")
	snap[0].Message = "mutated"

	if got := h.Snapshot("r1"); got[0].Message != "one" {
		t.Error("mutating a snapshot leaked into the buffer")
	}
}
