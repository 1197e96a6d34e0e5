package guard

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspecthub/internal/auth/models"
	"inspecthub/internal/auth/session"
	"inspecthub/internal/auth/token"
	"inspecthub/internal/platform/metrics"
)

type fakeSession struct {
	user  *models.User
	token string
}

func (f *fakeSession) Snapshot() session.Snapshot {
	return session.Snapshot{
		User:            f.user,
		State:           stateFor(f.user),
		IsAuthenticated: f.user != nil,
	}
}

func stateFor(user *models.User) session.State {
	if user == nil {
		return session.StateAnonymous
	}
	return session.StateAuthenticated
}

func (f *fakeSession) AccessToken() string { return f.token }

func (f *fakeSession) HasRole(roles ...models.UserRole) bool {
	return models.HasRole(f.user, roles...)
}

func (f *fakeSession) HasPermission(permission string) bool {
	return models.HasPermission(f.user, permission)
}

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func userWithRole(role models.UserRole) *models.User {
	return &models.User{ID: "user-1", Email: "someone@ihub.com", Role: role}
}

func expiredJWT(t *testing.T, now time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user-1", "exp": now.Add(-time.Minute).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

// redirectTarget splits a decision's redirect into path and query for
// assertions that survive URL encoding.
func redirectTarget(t *testing.T, d Decision) (string, url.Values) {
	t.Helper()
	u, err := url.Parse(d.RedirectTo)
	require.NoError(t, err)
	return u.Path, u.Query()
}

func TestUnauthenticatedRedirectsToLoginWithReturnURL(t *testing.T) {
	e := NewEvaluator(&fakeSession{}, token.NewCodec())

	decision := e.Evaluate(Route{Path: "/inspections"})

	assert.False(t, decision.Allowed)
	path, query := redirectTarget(t, decision)
	assert.Equal(t, session.LoginPath, path)
	assert.Equal(t, "/inspections", query.Get("returnUrl"))
}

func TestUnauthenticatedRootFallsBackToDashboardReturnURL(t *testing.T) {
	e := NewEvaluator(&fakeSession{}, token.NewCodec())

	for _, routePath := range []string{"", "/"} {
		decision := e.Evaluate(Route{Path: routePath})

		assert.False(t, decision.Allowed)
		path, query := redirectTarget(t, decision)
		assert.Equal(t, session.LoginPath, path)
		assert.Equal(t, "/dashboard", query.Get("returnUrl"))
	}
}

func TestExpiredTokenRedirectsToLogin(t *testing.T) {
	now := time.Now()
	sessions := &fakeSession{
		user:  userWithRole(models.RoleInspector),
		token: expiredJWT(t, now),
	}
	e := NewEvaluator(sessions, token.NewCodec(), withClock(func() time.Time { return now }))

	decision := e.Evaluate(Route{Path: "/inspections"})

	assert.False(t, decision.Allowed)
	path, query := redirectTarget(t, decision)
	assert.Equal(t, session.LoginPath, path)
	assert.Equal(t, "/inspections", query.Get("returnUrl"))
}

func TestPlaceholderTokenNeverExpires(t *testing.T) {
	sessions := &fakeSession{
		user:  userWithRole(models.RoleInspector),
		token: "mock-access-token",
	}
	e := NewEvaluator(sessions, token.NewCodec())

	decision := e.Evaluate(Route{Path: "/inspections"})

	assert.True(t, decision.Allowed)
}

func TestRoleDenialDefaultsToAccessDenied(t *testing.T) {
	notifier := &captureNotifier{}
	sessions := &fakeSession{user: userWithRole(models.RoleViewer), token: "mock-token"}
	e := NewEvaluator(sessions, token.NewCodec(), WithNotifier(notifier))

	decision := e.Evaluate(Route{Path: "/admin", Roles: []models.UserRole{models.RoleAdmin}})

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/access-denied", decision.RedirectTo)
	assert.Equal(t, deniedNotice, decision.Notice)
	assert.Equal(t, []string{deniedNotice}, notifier.messages)
}

func TestRoleDenialToRoleHome(t *testing.T) {
	tests := []struct {
		name string
		role models.UserRole
		want string
	}{
		{"admin lands on admin dashboard", models.RoleAdmin, "/admin/dashboard"},
		{"inspector lands on dashboard", models.RoleInspector, "/dashboard"},
		{"viewer lands on dashboard", models.RoleViewer, "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSession{user: userWithRole(tt.role), token: "mock-token"}
			e := NewEvaluator(sessions, token.NewCodec(), WithDenialPolicy(DenyToRoleHome))

			// A role requirement no listed role satisfies.
			decision := e.Evaluate(Route{Path: "/restricted", Roles: []models.UserRole{"auditor"}})

			assert.False(t, decision.Allowed)
			assert.Equal(t, tt.want, decision.RedirectTo)
			assert.Equal(t, deniedNotice, decision.Notice)
		})
	}
}

func TestPermissionDenialRedirectsToAccessDenied(t *testing.T) {
	sessions := &fakeSession{user: userWithRole(models.RoleViewer), token: "mock-token"}
	e := NewEvaluator(sessions, token.NewCodec())

	decision := e.Evaluate(Route{Path: "/users", Permission: "users:delete"})

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/access-denied", decision.RedirectTo)
	assert.Equal(t, deniedNotice, decision.Notice)
}

func TestPermissionGrantedThroughWildcard(t *testing.T) {
	sessions := &fakeSession{user: userWithRole(models.RoleAdmin), token: "mock-token"}
	e := NewEvaluator(sessions, token.NewCodec())

	decision := e.Evaluate(Route{Path: "/users", Permission: "users:delete"})

	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.RedirectTo)
	assert.Empty(t, decision.Notice)
}

func TestGuardChainOrderRolesBeforePermission(t *testing.T) {
	// Both role and permission would fail; the role check decides first.
	sessions := &fakeSession{user: userWithRole(models.RoleViewer), token: "mock-token"}
	e := NewEvaluator(sessions, token.NewCodec(), WithDenialPolicy(DenyToRoleHome))

	decision := e.Evaluate(Route{
		Path:       "/admin/users",
		Roles:      []models.UserRole{models.RoleAdmin},
		Permission: "users:delete",
	})

	assert.Equal(t, "/dashboard", decision.RedirectTo)
}

func TestDenialsAreCountedByReason(t *testing.T) {
	registry := prometheus.NewRegistry()
	mx := metrics.New(registry)
	sessions := &fakeSession{user: userWithRole(models.RoleViewer), token: "mock-token"}
	e := NewEvaluator(sessions, token.NewCodec(), WithMetrics(mx))

	e.Evaluate(Route{Path: "/admin", Roles: []models.UserRole{models.RoleAdmin}})
	e.Evaluate(Route{Path: "/users", Permission: "users:delete"})
	e.Evaluate(Route{Path: "/users", Permission: "users:delete"})

	assert.Equal(t, 1.0, testutil.ToFloat64(mx.GuardDenials.WithLabelValues("role")))
	assert.Equal(t, 2.0, testutil.ToFloat64(mx.GuardDenials.WithLabelValues("permission")))
}
