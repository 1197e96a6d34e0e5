package tokens

import "inspecthub/internal/auth/models"

// unavailableStore is the degraded mode for inaccessible storage: reads are
// empty, writes vanish. The session subsystem then behaves as
// always-anonymous rather than crashing.
type unavailableStore struct{}

// Unavailable returns the shared no-op store.
func Unavailable() Store {
	return unavailableStore{}
}

func (unavailableStore) AccessToken() string        { return "" }
func (unavailableStore) RefreshToken() string       { return "" }
func (unavailableStore) User() *models.User         { return nil }
func (unavailableStore) SetTokens(models.TokenPair) {}
func (unavailableStore) SetUser(*models.User)       {}
func (unavailableStore) Clear()                     {}
