package session

import (
	"context"
	"fmt"
	"sync"
)

// Durable storage keys. Both absent means logged out; they are always
// written and cleared together.
const (
	accessTokenKey = "accessToken"
	userRoleKey    = "userRole"
)

// Store holds the current authentication token and role. The first
// read loads both from durable storage; later reads use the in-memory
// copy. Safe for concurrent use.
type Store struct {
	storage Storage

	mu     sync.Mutex
	loaded bool
	token  string
	role   string
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// IsAuthenticated reports whether an access token is present.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return false, err
	}
	return s.token != "", nil
}

// Token returns the cached access token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return "", err
	}
	return s.token, nil
}

// Role returns the cached user role, or "" when logged out. Loading is
// implicit, so calling it before any authentication check is fine.
func (s *Store) Role(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return "", err
	}
	return s.role, nil
}

// Save stores the token and role as a pair, in durable storage and in
// memory.
func (s *Store) Save(ctx context.Context, token, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(ctx, accessTokenKey, token); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	if err := s.storage.Set(ctx, userRoleKey, role); err != nil {
		return fmt.Errorf("persist user role: %w", err)
	}
	s.token = token
	s.role = role
	s.loaded = true
	return nil
}

// Clear removes both entries unconditionally, whether or not a session
// existed.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx, accessTokenKey, userRoleKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.token = ""
	s.role = ""
	s.loaded = true
	return nil
}

// load populates the in-memory copy once. Callers hold s.mu.
func (s *Store) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	token, _, err := s.storage.Get(ctx, accessTokenKey)
	if err != nil {
		return fmt.Errorf("load access token: %w", err)
	}
	role, _, err := s.storage.Get(ctx, userRoleKey)
	if err != nil {
		return fmt.Errorf("load user role: %w", err)
	}
	s.token = token
	s.role = role
	s.loaded = true
	return nil
}
