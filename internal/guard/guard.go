// Package guard evaluates authentication, role, and permission requirements
// before a navigation is allowed to proceed. Evaluation is synchronous over
// a session snapshot: no network round-trip, and the decision lands before
// any protected content could render.
package guard

import (
	"log/slog"
	"net/url"
	"time"

	"inspecthub/internal/auth/models"
	"inspecthub/internal/auth/session"
	"inspecthub/internal/auth/token"
	"inspecthub/internal/platform/metrics"
)

const (
	accessDeniedPath  = "/access-denied"
	dashboardPath     = "/dashboard"
	adminDashboard    = "/admin/dashboard"
	deniedNotice      = "You do not have permission to access this page"
)

// Route describes a navigation target and its declared requirements.
type Route struct {
	Path       string
	Roles      []models.UserRole
	Permission string
}

// Decision is the outcome of a guard evaluation. When not allowed,
// RedirectTo carries the full target including query parameters.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Notice     string
}

// DenialPolicy selects where a role-denied navigation lands.
type DenialPolicy int

const (
	// DenyToAccessDenied redirects role failures to the access-denied view.
	DenyToAccessDenied DenialPolicy = iota
	// DenyToRoleHome redirects role failures to the user's default view.
	DenyToRoleHome
)

// SessionReader is the slice of the session manager guards need.
type SessionReader interface {
	Snapshot() session.Snapshot
	AccessToken() string
	HasRole(roles ...models.UserRole) bool
	HasPermission(permission string) bool
}

// Evaluator runs the guard chain over session snapshots.
type Evaluator struct {
	sessions SessionReader
	codec    *token.Codec
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier session.Notifier
	policy   DenialPolicy
	now      func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(e *Evaluator) {
		e.metrics = mx
	}
}

func WithNotifier(n session.Notifier) Option {
	return func(e *Evaluator) {
		e.notifier = n
	}
}

// WithDenialPolicy selects the role-denial redirect policy.
func WithDenialPolicy(policy DenialPolicy) Option {
	return func(e *Evaluator) {
		e.policy = policy
	}
}

func withClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

// NewEvaluator constructs a guard evaluator over the given session reader.
func NewEvaluator(sessions SessionReader, codec *token.Codec, opts ...Option) *Evaluator {
	e := &Evaluator{
		sessions: sessions,
		codec:    codec,
		logger:   slog.Default(),
		policy:   DenyToAccessDenied,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the guard chain: authentication, token freshness, roles,
// then permission. First failing check decides.
func (e *Evaluator) Evaluate(route Route) Decision {
	snap := e.sessions.Snapshot()

	if !snap.IsAuthenticated {
		returnURL := route.Path
		if returnURL == "" || returnURL == "/" {
			returnURL = dashboardPath
		}
		e.deny("unauthenticated", route)
		return redirect(loginURL(returnURL), "")
	}

	if e.codec.IsExpired(e.sessions.AccessToken(), e.now()) {
		e.deny("token_expired", route)
		return redirect(loginURL(route.Path), "")
	}

	if len(route.Roles) > 0 && !e.sessions.HasRole(route.Roles...) {
		e.deny("role", route)
		e.notify()
		return redirect(e.roleDenialTarget(snap.User), deniedNotice)
	}

	if route.Permission != "" && !e.sessions.HasPermission(route.Permission) {
		e.deny("permission", route)
		e.notify()
		return redirect(accessDeniedPath, deniedNotice)
	}

	return Decision{Allowed: true}
}

func (e *Evaluator) roleDenialTarget(user *models.User) string {
	if e.policy == DenyToAccessDenied || user == nil {
		return accessDeniedPath
	}
	switch user.Role {
	case models.RoleAdmin:
		return adminDashboard
	case models.RoleInspector, models.RoleViewer:
		return dashboardPath
	default:
		return "/"
	}
}

func (e *Evaluator) deny(reason string, route Route) {
	e.logger.Warn("navigation denied",
		"reason", reason,
		"path", route.Path,
	)
	if e.metrics != nil {
		e.metrics.IncrementGuardDenials(reason)
	}
}

func (e *Evaluator) notify() {
	if e.notifier != nil {
		e.notifier.Notify(deniedNotice)
	}
}

func loginURL(returnURL string) string {
	query := url.Values{"returnUrl": {returnURL}}
	return session.LoginPath + "?" + query.Encode()
}

func redirect(target, notice string) Decision {
	return Decision{RedirectTo: target, Notice: notice}
}
