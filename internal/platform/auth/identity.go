// Package auth resolves who is signed in. Identity comes from an OIDC ID
// token minted by the user's sign-in provider; this process never issues
// credentials of its own.
package auth

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the signed-in user as seen by the rest of the process.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Claims are the ID-token claims this process cares about. The subject is
// the stable user ID used on the sync URL.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (c *Claims) identity() Identity {
	return Identity{
		ID:      c.Subject,
		Name:    c.Name,
		Email:   c.Email,
		Picture: c.Picture,
	}
}

// Session holds the current sign-in state for the process. One session per
// agent; signing in replaces whatever identity was there before. Signing out
// clears the identity only, never stored profile data.
type Session struct {
	mu      sync.RWMutex
	current *Identity
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SignIn(id Identity) {
	s.mu.Lock()
	cp := id
	s.current = &cp
	s.mu.Unlock()
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current returns the signed-in identity, or nil.
func (s *Session) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// UserID returns the signed-in user's ID, or "" when signed out. Shaped to
// plug straight into the profile service's identity hook.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity stored on the context, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
