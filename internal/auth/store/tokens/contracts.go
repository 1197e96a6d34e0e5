// Package tokens persists the access/refresh token pair and the cached user
// record in durable client storage.
package tokens

import "inspecthub/internal/auth/models"

// Storage keys. They match the browser client's localStorage keys so a shared
// profile directory stays readable across tooling.
const (
	keyAccessToken  = "ihub_access_token"
	keyRefreshToken = "ihub_refresh_token"
	keyCurrentUser  = "current_user"
)

// Store is the durable token storage contract.
//
// Contract:
//   - SetTokens replaces both tokens as one atomic operation; a reader never
//     observes an access token from one pair alongside a refresh token from
//     another.
//   - Clear removes both tokens and the cached user as one logical operation.
//   - When the backing storage is unavailable, all operations degrade to
//     no-ops: reads return zero values, writes do nothing. Storage trouble
//     must never crash the session subsystem.
type Store interface {
	AccessToken() string
	RefreshToken() string
	User() *models.User
	SetTokens(pair models.TokenPair)
	SetUser(user *models.User)
	Clear()
}
