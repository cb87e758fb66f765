// Package chat owns the conversation state: the append-only message
// log, the pending flag, the session identity and the active suggestion
// set. All mutation goes through Submit and Apply; the caller's event
// loop is the only writer, and only the dispatched network call runs off
// it.
package chat

import (
	"context"
	"strings"
	"time"

	"chatterm/internal/utils"
)

// Result carries the outcome of a dispatched send back into Apply. It is
// opaque to callers; they only shuttle it from the Dispatch to Apply.
type Result struct {
	reply *Reply
	err   error
}

// Dispatch performs the network call captured by Submit. It is safe to
// run outside the event loop: it touches no conversation state.
type Dispatch func(ctx context.Context) Result

// Conversation is the state machine driving a single chat. Create one
// per conversation with New; it is not safe for concurrent mutation.
type Conversation struct {
	transport Transport
	auth      AuthState
	now       func() time.Time
	newID     func() string

	messages    []Message
	pending     bool
	sessionID   string
	suggestions []string
}

// Option customizes a Conversation, mainly for tests.
type Option func(*Conversation)

// WithClock substitutes the client clock.
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

// WithIDSource substitutes the generator for client-side message ids.
func WithIDSource(newID func() string) Option {
	return func(c *Conversation) { c.newID = newID }
}

// New returns an idle conversation seeded with the welcome message.
func New(transport Transport, auth AuthState, opts ...Option) *Conversation {
	c := &Conversation{
		transport: transport,
		auth:      auth,
		now:       time.Now,
		newID:     func() string { return utils.NewID("msg") },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = []Message{welcomeMessage(c.now())}
	c.suggestions = []string{}
	return c
}

// Submit starts a send. If the text is blank or a send is already in
// flight it is a no-op and returns ok=false. Otherwise it appends the
// user message optimistically, clears the active suggestions, enters the
// pending state and returns the Dispatch for the transport call. The
// route (authenticated vs public) and the session id are both captured
// here, at initiation time.
func (c *Conversation) Submit(text string) (Dispatch, bool) {
	if c.pending || strings.TrimSpace(text) == "" {
		return nil, false
	}

	c.messages = append(c.messages, Message{
		ID:        c.newID(),
		Content:   text,
		Sender:    SenderUser,
		Timestamp: c.now(),
	})
	c.suggestions = []string{}
	c.pending = true

	send := c.transport.SendMessagePublic
	if c.auth.IsAuthenticated() {
		send = c.transport.SendMessage
	}
	sessionID := c.sessionID

	return func(ctx context.Context) Result {
		reply, err := send(ctx, text, sessionID)
		if err != nil {
			return Result{err: err}
		}
		return Result{reply: reply}
	}, true
}

// Apply finishes the in-flight send and returns the conversation to
// idle. On success the bot reply is appended and the session id and
// suggestion set are replaced with the server's values. On failure a
// synthetic apology message is appended and session id and suggestions
// are left as the failed attempt found them. Transport errors stop here;
// Apply never surfaces them.
func (c *Conversation) Apply(r Result) {
	if !c.pending {
		return
	}
	c.pending = false

	if r.err != nil || r.reply == nil {
		c.messages = append(c.messages, Message{
			ID:        c.newID(),
			Content:   apologyText,
			Sender:    SenderBot,
			Timestamp: c.now(),
		})
		return
	}

	suggestions := r.reply.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	c.messages = append(c.messages, Message{
		ID:          r.reply.MessageID,
		Content:     r.reply.Response,
		Sender:      SenderBot,
		Timestamp:   r.reply.Timestamp,
		Intent:      r.reply.Intent,
		Confidence:  r.reply.Confidence,
		Suggestions: suggestions,
	})
	c.sessionID = r.reply.SessionID
	c.suggestions = suggestions
}

// PickSuggestion yields the input prefill for a tapped quick reply. It
// changes nothing: submitting stays the user's explicit action.
func (c *Conversation) PickSuggestion(s string) string {
	return s
}

// Messages returns a copy of the ordered message log.
func (c *Conversation) Messages() []Message {
	return append([]Message{}, c.messages...)
}

// Pending reports whether a send is in flight.
func (c *Conversation) Pending() bool {
	return c.pending
}

// SessionID returns the backend-issued session identifier, empty until
// the first successful exchange.
func (c *Conversation) SessionID() string {
	return c.sessionID
}

// Suggestions returns a copy of the active suggestion set.
func (c *Conversation) Suggestions() []string {
	return append([]string{}, c.suggestions...)
}
