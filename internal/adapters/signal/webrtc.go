package signal

import (
	"github.com/rs/zerolog/log"
)

// handleSignalMessage forwards offer/answer/ice-candidate frames
// verbatim to the sender's room, sender excluded. The payload is opaque;
// only the envelope and candidate shape are validated.
func (ctl *Controller) handleSignalMessage(conn *wsConn, kind string, data []byte) {
	room, err := ctl.Relay.Validate(kind, data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("signaling message rejected")
		ctl.sendError(conn, "invalid "+kind+" message")
		return
	}
	sent := ctl.Relay.Forward(conn, room, data)
	log.Debug().Str("module", "signal").Str("kind", kind).Str("room", string(room)).Int("sent_to", sent).Msg("forwarded")
}
