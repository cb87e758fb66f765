package api

import (
	"fmt"
	"time"

	"chatterm/internal/chat"
)

type chatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"sessionId"`
}

// chatResponse is the wire shape of both chat endpoints. Optional fields
// are pointers so absence survives decoding; defaulting happens in
// toReply, not at read sites.
type chatResponse struct {
	MessageID   string   `json:"messageId"`
	Response    string   `json:"response"`
	SessionID   string   `json:"sessionId"`
	Timestamp   string   `json:"timestamp"`
	Intent      *string  `json:"intent"`
	Confidence  *float64 `json:"confidence"`
	Suggestions []string `json:"suggestions"`
}

func (r chatResponse) toReply() (*chat.Reply, error) {
	if r.MessageID == "" || r.SessionID == "" {
		return nil, fmt.Errorf("chat response missing messageId or sessionId")
	}
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("chat response has malformed timestamp %q: %w", r.Timestamp, err)
	}

	reply := &chat.Reply{
		MessageID:   r.MessageID,
		Response:    r.Response,
		SessionID:   r.SessionID,
		Timestamp:   ts,
		Confidence:  r.Confidence,
		Suggestions: r.Suggestions,
	}
	if r.Intent != nil {
		reply.Intent = *r.Intent
	}
	if reply.Suggestions == nil {
		reply.Suggestions = []string{}
	}
	return reply, nil
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials is the payload of a successful login.
type Credentials struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Session is the backend's record of a conversation, as served by the
// session bookkeeping endpoints. Timestamps are kept as the server's
// strings; the client only displays them.
type Session struct {
	SessionID     string           `json:"sessionId"`
	UserID        string           `json:"userId"`
	CreatedAt     string           `json:"createdAt"`
	LastActivity  string           `json:"lastActivity"`
	Status        string           `json:"status"`
	CurrentIntent string           `json:"currentIntent"`
	Messages      []SessionMessage `json:"messages"`
}

// SessionMessage is one stored turn inside a Session.
type SessionMessage struct {
	MessageID  string   `json:"messageId"`
	Content    string   `json:"content"`
	Type       string   `json:"type"`
	Sender     string   `json:"sender"`
	Timestamp  string   `json:"timestamp"`
	Intent     string   `json:"intent"`
	Confidence *float64 `json:"confidence"`
}

// ShortID returns a display-friendly prefix of the session id.
func (s *Session) ShortID() string {
	if len(s.SessionID) >= 8 {
		return s.SessionID[:8]
	}
	return s.SessionID
}
