// Package domain contains core concepts of the live messaging system.
// No runtime, network, or UI logic should be added here.
package domain

import "github.com/google/uuid"

type ConnectionID string

// Connection is one authenticated transport session.
// The principal is extracted from the credential during the handshake
// and never changes for the lifetime of the connection.
type Connection struct {
	ID        ConnectionID
	Principal string
}

func NewConnection(principal string) Connection {
	return Connection{
		ID:        ConnectionID(uuid.NewString()),
		Principal: principal,
	}
}
