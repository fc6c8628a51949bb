package api

import (
	"strings"

	"github.com/google/uuid"
)

const sessionIDPrefix = "sess_"

// NewMessageID returns a random (version 4) UUID string for a conversation message.
func NewMessageID() string {
	return uuid.NewString()
}

// NewSessionID returns a session identifier: the "sess_" prefix followed by
// a time-ordered (version 7) UUID.
func NewSessionID() string {
	return sessionIDPrefix + uuid.Must(uuid.NewV7()).String()
}

// ValidateSessionID checks whether the given string is a well-formed session ID.
func ValidateSessionID(id string) bool {
	rest, ok := strings.CutPrefix(id, sessionIDPrefix)
	if !ok {
		return false
	}
	u, err := uuid.Parse(rest)
	return err == nil && u.Version() == 7
}
