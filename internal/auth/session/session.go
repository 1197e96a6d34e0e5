package session

import "inspecthub/internal/auth/models"

// State names a position in the session lifecycle.
type State string

const (
	// StateAnonymous means no user and no usable tokens.
	StateAnonymous State = "anonymous"
	// StateAuthenticating means a login, registration, or refresh is in flight.
	StateAuthenticating State = "authenticating"
	// StateAuthenticated means a user record and token pair are present.
	StateAuthenticated State = "authenticated"
)

// Snapshot is the published view of session state. Guards, headers, and
// dashboards read snapshots; only the Manager mutates the underlying state.
type Snapshot struct {
	User            *models.User
	State           State
	IsAuthenticated bool
	IsLoading       bool
	LastError       string
}

// LoginPath is where unauthenticated and expired sessions are sent.
const LoginPath = "/auth/login"
