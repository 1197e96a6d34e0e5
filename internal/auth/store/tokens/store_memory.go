package tokens

import (
	"sync"

	"inspecthub/internal/auth/models"
)

// MemoryStore keeps tokens in process memory for tests and throwaway
// sessions. A single RWMutex makes pair writes atomic for readers.
type MemoryStore struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *models.User
}

// NewMemory constructs an empty in-memory token store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Pair returns both tokens under one lock acquisition, for assertions that
// need a consistent view.
func (s *MemoryStore) Pair() (access, refresh string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *MemoryStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *MemoryStore) SetTokens(pair models.TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
}

func (s *MemoryStore) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
}
