package domain

import "errors"

var (
	// ErrInvalidRequest covers join/leave payloads with empty or missing
	// required fields. Reported to the requester only.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMalformedMessage covers signaling envelopes or candidate payloads
	// missing required sub-fields. The message is dropped, never forwarded.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrPayloadTooLarge rejects file uploads above the configured ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNotFound means a file id is absent or already expired. The two
	// cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")
)
