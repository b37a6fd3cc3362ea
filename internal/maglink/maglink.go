// Package maglink issues and consumes one-time passwordless login-link
// tokens for portal clients. A token is valid for one Consume within its TTL.
package maglink

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petgasmx/petgas-portal/internal/errs"
)

// LinkStore issues and consumes one-time login tokens.
type LinkStore interface {
	// Issue mints a token bound to email, valid for the store's TTL.
	Issue(ctx context.Context, email string) (string, error)
	// Consume redeems a token exactly once, returning the bound email.
	Consume(ctx context.Context, token string) (string, error)
}

// linkEntry stores a pending login link with expiry.
type linkEntry struct {
	email   string
	expires time.Time
}

// MemoryStore keeps pending login links in memory. It backs tests and
// single-process deployments without redis.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]linkEntry
}

// NewMemoryStore creates an empty in-memory link store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &MemoryStore{
		ttl:   ttl,
		items: make(map[string]linkEntry),
	}
}

// Issue mints a token bound to email.
func (s *MemoryStore) Issue(_ context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", errs.Validation("email is required")
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token] = linkEntry{email: email, expires: time.Now().Add(s.ttl)}
	return token, nil
}

// Consume redeems a token exactly once.
func (s *MemoryStore) Consume(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errs.Validation("token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[token]
	if !ok {
		return "", errs.NotFound("unknown login token")
	}
	delete(s.items, token)
	if time.Now().After(entry.expires) {
		return "", errs.NotFound("login token expired")
	}
	return entry.email, nil
}
