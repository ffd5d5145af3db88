// Package session maps opaque bearer tokens to authenticated identities.
// The mapping lives only in process memory: a restart invalidates every
// session. The store is a capability cache, never the source of truth for
// identity.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
)

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

// User is the identity snapshot cached for one session token.
type User struct {
	UserID      string
	Username    string
	DisplayName string
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]User
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]User)}
}

// Create generates a random token and stores a snapshot of the user.
func (s *Store) Create(user User) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = user
	s.mu.Unlock()

	return token, nil
}

// Resolve looks up the identity for a token. A miss is not an error; the
// caller decides whether absence means unauthenticated.
func (s *Store) Resolve(token string) (User, bool) {
	s.mu.RLock()
	user, ok := s.sessions[token]
	s.mu.RUnlock()
	return user, ok
}

// Revoke removes a token. Revoking an unknown token is a no-op.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// UpdateDisplayName refreshes the cached snapshot for a live token so
// subsequent Resolve calls see the new name without a re-login.
func (s *Store) UpdateDisplayName(token, displayName string) {
	s.mu.Lock()
	if user, ok := s.sessions[token]; ok {
		user.DisplayName = displayName
		s.sessions[token] = user
	}
	s.mu.Unlock()
}
