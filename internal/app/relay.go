package app

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/edge2meet/signaling/internal/domain"
)

// Signaling message kinds the relay forwards. The payload is never
// interpreted; only the envelope (and, for candidates, the candidate
// shape) is checked.
const (
	KindOffer     = "offer"
	KindAnswer    = "answer"
	KindCandidate = "ice-candidate"
)

type envelope struct {
	From string `json:"from"`
	To   string `json:"to"`
	Room string `json:"room"`
}

type candidateMessage struct {
	envelope
	Candidate *webrtc.ICECandidateInit `json:"candidate"`
}

// Relay validates and forwards session-negotiation messages. Delivery is
// room-scoped broadcast minus sender; the `to` field stays advisory and
// receivers filter messages not addressed to them.
type Relay struct {
	Registry *Registry
}

func NewRelay(reg *Registry) *Relay {
	return &Relay{Registry: reg}
}

// Validate checks the envelope of a signaling message and, for
// candidates, the three fields a receiver needs to apply it. Returns the
// target room on success.
func (r *Relay) Validate(kind string, data []byte) (domain.RoomID, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrMalformedMessage, err)
	}
	if env.From == "" || env.To == "" || env.Room == "" {
		return "", fmt.Errorf("%w: missing from, to or room", domain.ErrMalformedMessage)
	}
	if kind == KindCandidate {
		if err := validateCandidate(data); err != nil {
			return "", err
		}
	}
	return domain.RoomID(env.Room), nil
}

func validateCandidate(data []byte) error {
	var msg candidateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMalformedMessage, err)
	}
	switch {
	case msg.Candidate == nil:
		return fmt.Errorf("%w: missing candidate", domain.ErrMalformedMessage)
	case msg.Candidate.Candidate == "":
		return fmt.Errorf("%w: candidate missing transport descriptor", domain.ErrMalformedMessage)
	case msg.Candidate.SDPMid == nil || *msg.Candidate.SDPMid == "":
		return fmt.Errorf("%w: candidate missing sdpMid", domain.ErrMalformedMessage)
	case msg.Candidate.SDPMLineIndex == nil:
		// zero is a valid line index; only absence is malformed
		return fmt.Errorf("%w: candidate missing sdpMLineIndex", domain.ErrMalformedMessage)
	}
	return nil
}

// Forward sends data verbatim to every connection in room except the
// sender's. Returns the number of connections reached.
func (r *Relay) Forward(sender Conn, room domain.RoomID, data []byte) int {
	return r.Registry.Fanout(room, sender, Frame(data))
}
