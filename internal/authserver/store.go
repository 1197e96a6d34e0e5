package authserver

import (
	"strings"
	"sync"
	"time"

	"inspecthub/internal/auth/models"
	dErrors "inspecthub/pkg/domain-errors"
)

// account pairs a user record with its password hash.
type account struct {
	user         models.User
	passwordHash []byte
}

// refreshRecord tracks a single-use refresh token.
type refreshRecord struct {
	token     string
	userID    string
	device    string
	expiresAt time.Time
	used      bool
}

// memoryStore keeps dev server state in process memory.
//
// Error Contract: lookups return not_found domain errors when the entity
// does not exist; Consume returns unauthorized for used or expired tokens.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by lowercase email
	refresh  map[string]*refreshRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[string]*account),
		refresh:  make(map[string]*refreshRecord),
	}
}

func (s *memoryStore) putAccount(user models.User, passwordHash []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(user.Email)] = &account{user: user, passwordHash: passwordHash}
}

func (s *memoryStore) findByEmail(email string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return acct, nil
}

func (s *memoryStore) findByID(id string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
}

func (s *memoryStore) updateUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[strings.ToLower(user.Email)]; ok {
		acct.user = user
	}
}

func (s *memoryStore) setPassword(email string, hash []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[strings.ToLower(email)]; ok {
		acct.passwordHash = hash
	}
}

func (s *memoryStore) createRefresh(rec *refreshRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[rec.token] = rec
}

// consumeRefresh marks the token used and returns its record. A used or
// expired token is rejected; rotation means every refresh mints a new one.
func (s *memoryStore) consumeRefresh(token string, now time.Time) (*refreshRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.refresh[token]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	if rec.used {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token already used")
	}
	if now.After(rec.expiresAt) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token expired")
	}
	rec.used = true
	return rec, nil
}

// revokeUserTokens drops all refresh tokens for a user (logout).
func (s *memoryStore) revokeUserTokens(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, rec := range s.refresh {
		if rec.userID == userID {
			delete(s.refresh, token)
		}
	}
}
