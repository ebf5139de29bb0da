package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/edge2meet/signaling/internal/domain"
)

func TestValidateEnvelope(t *testing.T) {
	r := NewRelay(NewRegistry())

	tests := []struct {
		name    string
		kind    string
		data    string
		wantErr bool
	}{
		{"valid offer", KindOffer, `{"from":"a","to":"b","room":"r1","offer":{"sdp":"v=0"}}`, false},
		{"valid answer", KindAnswer, `{"from":"b","to":"a","room":"r1","answer":{"sdp":"v=0"}}`, false},
		{"missing from", KindOffer, `{"to":"b","room":"r1"}`, true},
		{"missing to", KindOffer, `{"from":"a","room":"r1"}`, true},
		{"missing room", KindAnswer, `{"from":"a","to":"b"}`, true},
		{"not json", KindOffer, `{{{`, true},
		{"valid candidate", KindCandidate, `{"from":"a","to":"b","room":"r1","candidate":{"candidate":"candidate:1 1 udp 2122:...","sdpMid":"0","sdpMLineIndex":0}}`, false},
		{"candidate index zero allowed", KindCandidate, `{"from":"a","to":"b","room":"r1","candidate":{"candidate":"candidate:1","sdpMid":"audio","sdpMLineIndex":0}}`, false},
		{"candidate missing entirely", KindCandidate, `{"from":"a","to":"b","room":"r1"}`, true},
		{"candidate missing sdpMid", KindCandidate, `{"from":"a","to":"b","room":"r1","candidate":{"candidate":"candidate:1","sdpMLineIndex":0}}`, true},
		{"candidate empty sdpMid", KindCandidate, `{"from":"a","to":"b","room":"r1","candidate":{"candidate":"candidate:1","sdpMid":"","sdpMLineIndex":0}}`, true},
		{"candidate missing line index", KindCandidate, `{"from":"a","to":"b","room":"r1","candidate":{"candidate":"candidate:1","sdpMid":"0"}}`, true},
		{"candidate empty descriptor", KindCandidate, `{"from":"a","to":"b","room":"r1","candidate":{"candidate":"","sdpMid":"0","sdpMLineIndex":0}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := r.Validate(tt.kind, []byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedMessage) {
					t.Fatalf("expected ErrMalformedMessage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if room != "r1" {
				t.Errorf("room = %q, want r1", room)
			}
		})
	}
}

func TestForwardExcludesSender(t *testing.T) {
	reg := NewRegistry()
	r := NewRelay(reg)

	sender := &fakeConn{}
	peer := &fakeConn{}
	other := &fakeConn{}
	reg.Register("a", sender, "r1", "Alice")
	reg.Register("b", peer, "r1", "Bob")
	reg.Register("c", other, "r2", "Carol")

	data := []byte(`{"type":"offer","from":"a","to":"b","room":"r1"}`)
	sent := r.Forward(sender, "r1", data)

	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(sender.frames) != 0 {
		t.Error("sender received its own signaling frame")
	}
	if len(peer.frames) != 1 || string(peer.frames[0]) != string(data) {
		t.Errorf("peer frames = %v", peer.frames)
	}
	if len(other.frames) != 0 {
		t.Error("frame leaked outside the room")
	}
}

func TestMalformedCandidateNeverForwarded(t *testing.T) {
	reg := NewRegistry()
	r := NewRelay(reg)

	sender := &fakeConn{}
	peer := &fakeConn{}
	reg.Register("a", sender, "r1", "Alice")
	reg.Register("b", peer, "r1", "Bob")

	data := []byte(`{"from":"a","to":"b","room":"r1","candidate":{"candidate":"candidate:1","sdpMLineIndex":0}}`)
	if _, err := r.Validate(KindCandidate, data); err == nil {
		t.Fatal("candidate without sdpMid validated")
	}
	// Validation failure means Forward is never called; peers see nothing.
	if len(peer.frames) != 0 {
		t.Errorf("peer received rejected candidate: %v", peer.frames)
	}
}

type failingConn struct{}

func (failingConn) TrySend(Frame) error { return fmt.Errorf("backpressure") }

func TestForwardSkipsSlowConsumers(t *testing.T) {
	reg := NewRegistry()
	r := NewRelay(reg)

	sender := &fakeConn{}
	healthy := &fakeConn{}
	reg.Register("a", sender, "r1", "Alice")
	reg.Register("b", failingConn{}, "r1", "Bob")
	reg.Register("c", healthy, "r1", "Carol")

	sent := r.Forward(sender, "r1", []byte(`{"from":"a","to":"b","room":"r1"}`))
	if sent != 1 {
		t.Errorf("sent = %d, want 1 (slow consumer skipped)", sent)
	}
	if len(healthy.frames) != 1 {
		t.Error("healthy peer missed the frame")
	}
}
