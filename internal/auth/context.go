// Package auth owns the process-wide authentication state: who is
// logged in, the stored bearer token, and the login/register/logout
// lifecycle. Failures come back as Result values, never as raised
// errors; callers branch on the shape, not on control flow.
package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"chatterm/internal/api"
	"chatterm/internal/chat"
	"chatterm/internal/logger"
)

const (
	networkErrorText   = "Network error. Please try again."
	badCredentialsText = "Invalid username or password"
	loginFailedText    = "Login failed"
	registerFailedText = "Registration failed"
)

// API is the slice of the platform client the auth context drives.
type API interface {
	Login(ctx context.Context, username, password string) (api.Credentials, error)
	Register(ctx context.Context, username, password string) error
}

// User is the authenticated identity.
type User struct {
	Username string
}

// Result is the outcome of a login or registration attempt. Error holds
// the user-facing text when Success is false.
type Result struct {
	Success bool
	Error   string
}

// Context holds the authentication state consumed by the conversation
// core and the UI. Login, Register and Logout are its only mutators.
type Context struct {
	mu    sync.RWMutex
	api   API
	store *Store
	user  *User
}

var _ chat.AuthState = (*Context)(nil)

// NewContext builds an auth context over client and store, adopting any
// credentials the store already holds.
func NewContext(client API, store *Store) *Context {
	c := &Context{api: client, store: store}
	if name, ok := store.Username(); ok {
		c.user = &User{Username: name}
	}
	return c
}

// Login authenticates against the gateway and persists the token on
// success. Prior state is untouched on failure.
func (c *Context) Login(ctx context.Context, username, password string) Result {
	creds, err := c.api.Login(ctx, username, password)
	if err != nil {
		return failure(err, loginFailure)
	}

	if err := c.store.save(credentials{
		AccessToken: creds.AccessToken,
		TokenType:   creds.TokenType,
		Username:    username,
	}); err != nil {
		// The session still works in memory; it just won't survive a
		// restart.
		logger.Warn("could not persist credentials", "error", err)
	}

	c.mu.Lock()
	c.user = &User{Username: username}
	c.mu.Unlock()
	logger.Info("logged in", "user", username)
	return Result{Success: true}
}

// Register creates the account and then logs in with the same
// credentials, so registration leaves the user authenticated. The
// gateway's register response carries no token, hence the second call;
// whether the platform intends registration to imply authentication is
// unverified against the backend contract.
func (c *Context) Register(ctx context.Context, username, password string) Result {
	if err := c.api.Register(ctx, username, password); err != nil {
		return failure(err, registerFailure)
	}
	return c.Login(ctx, username, password)
}

// Logout clears the stored token and the in-memory identity. No server
// round-trip is involved.
func (c *Context) Logout() {
	if err := c.store.Clear(); err != nil {
		logger.Warn("could not remove credentials file", "error", err)
	}
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
	logger.Info("logged out")
}

// IsAuthenticated implements chat.AuthState.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// User returns the current identity, if any.
func (c *Context) User() (User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return User{}, false
	}
	return *c.user, true
}

// failure maps a transport error to the user-facing Result: structured
// gateway rejections keep their meaning, everything else is the fixed
// network-error text.
func failure(err error, describe func(*api.StatusError) string) Result {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return Result{Error: describe(statusErr)}
	}
	return Result{Error: networkErrorText}
}

func loginFailure(err *api.StatusError) string {
	if err.StatusCode == http.StatusUnauthorized {
		return badCredentialsText
	}
	if err.Body != "" {
		return err.Body
	}
	return loginFailedText
}

func registerFailure(err *api.StatusError) string {
	if err.Body != "" {
		return err.Body
	}
	return registerFailedText
}
