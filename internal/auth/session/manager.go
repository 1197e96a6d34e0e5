package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"inspecthub/internal/auth/models"
	"inspecthub/internal/auth/store/tokens"
	"inspecthub/internal/auth/token"
	"inspecthub/internal/platform/metrics"
	dErrors "inspecthub/pkg/domain-errors"
)

const (
	defaultMonitorPeriod     = time.Minute
	defaultWarningThreshold  = 5 * time.Minute
	defaultCriticalThreshold = 2 * time.Minute
)

// Manager owns authentication state and is the only component allowed to
// mutate tokens or the user record. Everything else observes snapshots.
type Manager struct {
	api       AuthAPI
	store     tokens.Store
	codec     *token.Codec
	logger    *slog.Logger
	metrics   *metrics.Metrics
	navigator Navigator
	notifier  Notifier

	monitorPeriod     time.Duration
	warningThreshold  time.Duration
	criticalThreshold time.Duration

	// refreshGroup coalesces concurrent refresh attempts from the request
	// pipeline and the session monitor into one network call.
	refreshGroup singleflight.Group

	mu            sync.RWMutex
	user          *models.User
	state         State
	loading       bool
	lastError     string
	generation    uint64
	cancelMonitor context.CancelFunc
	subscribers   []chan Snapshot
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mx
	}
}

// WithNavigator wires the redirect sink used on logout and session expiry.
func WithNavigator(nav Navigator) Option {
	return func(m *Manager) {
		m.navigator = nav
	}
}

// WithNotifier wires the transient-message sink for expiry warnings.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithMonitorPeriod overrides the interval between expiry checks when
// greater than zero.
func WithMonitorPeriod(period time.Duration) Option {
	return func(m *Manager) {
		if period > 0 {
			m.monitorPeriod = period
		}
	}
}

// WithWarningThreshold overrides the remaining-lifetime threshold that
// triggers a non-blocking expiry warning.
func WithWarningThreshold(threshold time.Duration) Option {
	return func(m *Manager) {
		if threshold > 0 {
			m.warningThreshold = threshold
		}
	}
}

// WithCriticalThreshold overrides the remaining-lifetime threshold that
// triggers a proactive refresh.
func WithCriticalThreshold(threshold time.Duration) Option {
	return func(m *Manager) {
		if threshold > 0 {
			m.criticalThreshold = threshold
		}
	}
}

// NewManager constructs a Manager in the anonymous state. A previously
// persisted session is resumed when the store still holds tokens and a user
// record.
func NewManager(api AuthAPI, store tokens.Store, codec *token.Codec, opts ...Option) *Manager {
	m := &Manager{
		api:               api,
		store:             store,
		codec:             codec,
		logger:            slog.Default(),
		state:             StateAnonymous,
		monitorPeriod:     defaultMonitorPeriod,
		warningThreshold:  defaultWarningThreshold,
		criticalThreshold: defaultCriticalThreshold,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if user := store.User(); user != nil && store.AccessToken() != "" {
		m.user = user
		m.state = StateAuthenticated
		m.startMonitorLocked()
	}
	return m
}

// Snapshot returns the current published session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:            m.user,
		State:           m.state,
		IsAuthenticated: m.state == StateAuthenticated,
		IsLoading:       m.loading,
		LastError:       m.lastError,
	}
}

// Subscribe returns a channel of session snapshots. A slow subscriber drops
// updates rather than blocking the Manager; the latest state is always
// available via Snapshot.
func (m *Manager) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 8)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	ch <- m.snapshotLocked()
	m.mu.Unlock()
	return ch
}

func (m *Manager) publishLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Login authenticates with primary credentials. On success the token pair
// and user record are stored, the session monitor starts, and the session
// becomes authenticated. On failure nothing in the store changes.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	m.beginAuthenticating()

	result, err := m.api.Login(ctx, req)
	if err != nil {
		m.failAuthenticating(err)
		m.logAuthFailure(ctx, "login_rejected", err, "email", req.Email)
		m.incrementLoginFailures()
		return nil, dErrors.Wrap(dErrors.CodeInvalidCredentials, "login failed", err)
	}

	m.establishSession(result.User, result.Tokens())
	m.logAuthEvent(ctx, "user_logged_in",
		"user_id", result.User.ID,
		"role", result.User.Role.String(),
	)
	m.incrementLogins()
	return result, nil
}

// Register creates an account and, when the server issues tokens with the
// response, establishes the session exactly like a login.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResult, error) {
	m.beginAuthenticating()

	result, err := m.api.Register(ctx, req)
	if err != nil {
		m.failAuthenticating(err)
		m.logAuthFailure(ctx, "registration_rejected", err, "email", req.Email)
		return nil, err
	}

	if result.AutoLogin() {
		m.establishSession(result.User, result.Tokens())
		m.logAuthEvent(ctx, "user_registered",
			"user_id", result.User.ID,
			"auto_login", true,
		)
		m.incrementLogins()
	} else {
		m.endAuthenticating()
		m.logAuthEvent(ctx, "user_registered",
			"user_id", result.User.ID,
			"auto_login", false,
		)
	}
	return result, nil
}

// Logout clears the session. The server notification is best-effort; local
// state is cleared regardless of its outcome. Idempotent and never fails.
func (m *Manager) Logout(ctx context.Context, redirect bool) {
	if m.store.AccessToken() != "" {
		if err := m.api.Logout(ctx); err != nil {
			m.logger.WarnContext(ctx, "server logout notification failed", "error", err)
		}
	}

	m.clearSession()
	m.logAuthEvent(ctx, "user_logged_out")

	if redirect && m.navigator != nil {
		m.navigator.NavigateTo(LoginPath)
	}
}

// Refresh exchanges the stored refresh token for a new pair. Concurrent
// callers are coalesced into a single network call and share its result.
// On any failure the session is cleared and the caller is redirected to
// login; the returned error carries session_expired or no_refresh_token.
func (m *Manager) Refresh(ctx context.Context) (models.TokenPair, error) {
	result, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return models.TokenPair{}, err
	}
	return result.(models.TokenPair), nil
}

func (m *Manager) doRefresh(ctx context.Context) (models.TokenPair, error) {
	refreshToken := m.store.RefreshToken()
	if refreshToken == "" {
		m.expireSession(ctx, "refresh_without_token")
		return models.TokenPair{}, dErrors.New(dErrors.CodeNoRefreshToken, "no refresh token available")
	}

	result, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.expireSession(ctx, "refresh_rejected")
		m.incrementRefreshFailures()
		return models.TokenPair{}, dErrors.Wrap(dErrors.CodeSessionExpired, "session expired, log in again", err)
	}

	pair := result.Tokens()
	m.store.SetTokens(pair)
	m.logAuthEvent(ctx, "token_refreshed")
	m.incrementRefreshes()
	return pair, nil
}

// expireSession handles unrecoverable refresh failures: clear everything and
// send the user to the login view.
func (m *Manager) expireSession(ctx context.Context, reason string) {
	m.logger.WarnContext(ctx, "session expired", "reason", reason)
	m.clearSession()
	if m.navigator != nil {
		m.navigator.NavigateTo(LoginPath)
	}
}

// Profile fetches the current user record and updates session state.
func (m *Manager) Profile(ctx context.Context) (*models.User, error) {
	user, err := m.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	m.adoptUser(user)
	return user, nil
}

// UpdateProfile applies a partial profile update and adopts the result.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*models.User, error) {
	user, err := m.api.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}
	m.adoptUser(user)
	m.logAuthEvent(ctx, "profile_updated", "user_id", user.ID)
	return user, nil
}

// ForgotPassword starts a password reset. No session state changes.
func (m *Manager) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	return m.api.ForgotPassword(ctx, req)
}

// ChangePassword rotates the current user's password. No session state changes.
func (m *Manager) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	return m.api.ChangePassword(ctx, req)
}

// HasRole reports whether the current user's role is among the given roles.
func (m *Manager) HasRole(roles ...models.UserRole) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.HasRole(m.user, roles...)
}

// HasPermission reports whether the current user's role grants the
// permission, using exact → resource-wildcard → global-wildcard precedence.
func (m *Manager) HasPermission(permission string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.HasPermission(m.user, permission)
}

// AccessToken exposes the stored access token for header rendering.
func (m *Manager) AccessToken() string {
	return m.store.AccessToken()
}

// Close stops the session monitor without touching stored state.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMonitorLocked()
}

func (m *Manager) beginAuthenticating() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	m.lastError = ""
	m.state = StateAuthenticating
	m.publishLocked()
}

func (m *Manager) failAuthenticating(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	m.lastError = err.Error()
	if m.user == nil {
		m.state = StateAnonymous
	} else {
		m.state = StateAuthenticated
	}
	m.publishLocked()
}

func (m *Manager) endAuthenticating() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if m.user == nil {
		m.state = StateAnonymous
	} else {
		m.state = StateAuthenticated
	}
	m.publishLocked()
}

func (m *Manager) establishSession(user *models.User, pair models.TokenPair) {
	m.store.SetTokens(pair)
	m.store.SetUser(user)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.loading = false
	m.lastError = ""
	m.state = StateAuthenticated
	m.generation++
	m.startMonitorLocked()
	m.publishLocked()
}

func (m *Manager) clearSession() {
	m.store.Clear()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMonitorLocked()
	m.user = nil
	m.loading = false
	m.state = StateAnonymous
	m.generation++
	m.publishLocked()
}

func (m *Manager) adoptUser(user *models.User) {
	m.store.SetUser(user)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.publishLocked()
}

func (m *Manager) currentGeneration() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}
