package chat

import (
	"context"
	"time"
)

// Reply is the decoded payload of a successful chat exchange. Optional
// fields are already defaulted by the transport: a nil Suggestions slice
// never reaches the conversation.
type Reply struct {
	MessageID   string
	Response    string
	SessionID   string
	Timestamp   time.Time
	Intent      string
	Confidence  *float64
	Suggestions []string
}

// Transport exchanges one user utterance plus the current session id for
// a bot reply. sessionID is empty on the first turn of a conversation.
// The authenticated and public operations share one shape; credential
// attachment is the transport's concern, never the conversation's.
type Transport interface {
	SendMessage(ctx context.Context, text, sessionID string) (*Reply, error)
	SendMessagePublic(ctx context.Context, text, sessionID string) (*Reply, error)
}

// AuthState is the conversation's read-only view of the authentication
// context. It is consulted at the moment a send is initiated, so a
// mid-flight login or logout only affects the next send.
type AuthState interface {
	IsAuthenticated() bool
}
