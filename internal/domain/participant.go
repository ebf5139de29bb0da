// Package domain contains entity without logic, just meta-data
package domain

import "time"

type (
	UserID string
	RoomID string
)

// Participant is the live registry record for one connected user.
// Exactly one record may exist per UserID; a re-join with the same
// id replaces the earlier record.
type Participant struct {
	ID         UserID    `json:"user_id"`
	Room       RoomID    `json:"room"`
	Username   string    `json:"username"`
	JoinedAt   time.Time `json:"connection_time"`
	AudioMuted bool      `json:"audioMuted"`
	VideoMuted bool      `json:"videoMuted"`
}
