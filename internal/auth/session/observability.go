package session

import "context"

// Observability helpers for logging and metrics. These are on *Manager to
// reach the logger and metrics registry; every metric call nil-guards so a
// Manager without metrics behaves identically.

func (m *Manager) logAuthEvent(ctx context.Context, event string, attributes ...any) {
	if m.logger == nil {
		return
	}
	args := append(attributes, "event", event, "log_type", "audit")
	m.logger.InfoContext(ctx, event, args...)
}

func (m *Manager) logAuthFailure(ctx context.Context, reason string, err error, attributes ...any) {
	if m.logger == nil {
		return
	}
	args := append(attributes, "event", "auth_failed", "reason", reason, "error", err)
	m.logger.WarnContext(ctx, "auth_failed", args...)
}

func (m *Manager) incrementLogins() {
	if m.metrics != nil {
		m.metrics.IncrementLogins()
	}
}

func (m *Manager) incrementLoginFailures() {
	if m.metrics != nil {
		m.metrics.IncrementLoginFailures()
	}
}

func (m *Manager) incrementRefreshes() {
	if m.metrics != nil {
		m.metrics.IncrementTokenRefreshes()
	}
}

func (m *Manager) incrementRefreshFailures() {
	if m.metrics != nil {
		m.metrics.IncrementRefreshFailures()
	}
}

func (m *Manager) incrementSessionWarnings() {
	if m.metrics != nil {
		m.metrics.IncrementSessionWarnings()
	}
}
