package session

import (
	"context"
	"time"
)

// The session monitor periodically inspects the access token's remaining
// lifetime and refreshes proactively before calls start failing. Exactly one
// monitor runs per established session; establishing a new session or
// clearing the current one cancels it. Ticks carry the generation they were
// started under so a tick racing a logout is a no-op.

func (m *Manager) startMonitorLocked() {
	m.stopMonitorLocked()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMonitor = cancel
	go m.runMonitor(ctx, m.generation)
}

func (m *Manager) stopMonitorLocked() {
	if m.cancelMonitor != nil {
		m.cancelMonitor()
		m.cancelMonitor = nil
	}
}

func (m *Manager) runMonitor(ctx context.Context, generation uint64) {
	// Unconditional immediate check, then the fixed period.
	m.checkExpiry(ctx, generation)

	ticker := time.NewTicker(m.monitorPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkExpiry(ctx, generation)
		}
	}
}

func (m *Manager) checkExpiry(ctx context.Context, generation uint64) {
	if m.currentGeneration() != generation {
		return
	}

	accessToken := m.store.AccessToken()
	if accessToken == "" {
		return
	}

	remaining, ok := m.codec.Remaining(accessToken, time.Now())
	if !ok {
		// No expiry information: assume valid until the server says otherwise.
		return
	}

	switch {
	case remaining <= m.criticalThreshold:
		if _, err := m.Refresh(ctx); err != nil {
			// Refresh already cleared the session; make sure a monitor racing
			// a fresh login does not tear that login down.
			if m.currentGeneration() == generation {
				m.Logout(ctx, true)
			}
		}
	case remaining <= m.warningThreshold:
		m.logger.WarnContext(ctx, "session expiring soon", "remaining", remaining.String())
		m.incrementSessionWarnings()
		if m.notifier != nil {
			m.notifier.Notify("Your session is expiring soon")
		}
	}
}
