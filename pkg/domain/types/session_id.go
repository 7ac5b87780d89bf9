package types

import "github.com/google/uuid"

// SessionID identifies one chat conversation. Callers treat it as an
// opaque handle; the service only uses it to key conversation state.
type SessionID string

// NewSessionID generates a new time-ordered session ID
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of SessionID
func (s SessionID) String() string {
	return string(s)
}
