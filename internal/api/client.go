// Package api implements the HTTP client for the Conversational AI
// Platform gateway: the two chat operations consumed by the
// conversation core, the auth endpoints, and the session bookkeeping
// surface. Bearer credentials are attached by the client's transport,
// never at call sites.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chatterm/internal/chat"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4 << 10

// TokenSource supplies the stored bearer token, if any.
type TokenSource interface {
	Token() (token string, ok bool)
}

// StatusError reports a non-2xx response from the platform.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to one platform gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ chat.Transport = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout. The timeout bounds a hung
// transport call so the conversation always returns to idle.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithBaseTransport swaps the underlying RoundTripper beneath the bearer
// interceptor, mainly for tests.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport.(*bearerTransport).base = rt
	}
}

// NewClient builds a client for baseURL. tokens may be nil for a client
// that never authenticates.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &bearerTransport{tokens: tokens, base: http.DefaultTransport},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// bearerTransport attaches the stored token to every outgoing request,
// the request-interceptor pattern: presence of a token decides, not the
// endpoint being called.
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token, ok := t.tokens.Token(); ok {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base.RoundTrip(req)
}

// SendMessage exchanges a user utterance for a bot reply on the
// authenticated chat endpoint.
func (c *Client) SendMessage(ctx context.Context, text, sessionID string) (*chat.Reply, error) {
	return c.sendChat(ctx, "/api/chat/message", text, sessionID)
}

// SendMessagePublic is the unauthenticated counterpart of SendMessage.
func (c *Client) SendMessagePublic(ctx context.Context, text, sessionID string) (*chat.Reply, error) {
	return c.sendChat(ctx, "/api/chat/message/public", text, sessionID)
}

func (c *Client) sendChat(ctx context.Context, path, text, sessionID string) (*chat.Reply, error) {
	req := chatRequest{Message: text}
	if sessionID != "" {
		req.SessionID = &sessionID
	}
	var resp chatResponse
	if err := c.postJSON(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return resp.toReply()
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	err := c.postJSON(ctx, "/api/auth/login", authRequest{Username: username, Password: password}, &creds)
	return creds, err
}

// Register creates an account. The gateway answers with plain text, so
// only the status matters here.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.postJSON(ctx, "/api/auth/register", authRequest{Username: username, Password: password}, nil)
}

// ListSessions returns the authenticated user's sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := c.getJSON(ctx, "/api/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession fetches one session with its stored messages.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	if err := c.getJSON(ctx, "/api/sessions/"+id, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateSession asks the backend to open a fresh session.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.postJSON(ctx, "/api/sessions", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
