package services

import (
	"context"
	"sync"
	"time"

	"github.com/ega-bank/ega-bank-client/internal/logger"
)

const defaultCheckInterval = time.Minute
const expiryWarningWindow = 5 * time.Minute

// SessionMonitor periodically checks session validity: an expired
// session clears the dashboard cache and stops the monitor, a token
// close to expiry raises a warning notification.
type SessionMonitor struct {
	auth          *AuthService
	cache         *DashboardCache
	notifications *NotificationService
	interval      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionMonitor(auth *AuthService, cache *DashboardCache, notifications *NotificationService, interval time.Duration) *SessionMonitor {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &SessionMonitor{
		auth:          auth,
		cache:         cache,
		notifications: notifications,
		interval:      interval,
	}
}

// Start launches the monitoring loop. It runs until the context is
// cancelled, Stop is called, or the session expires.
func (m *SessionMonitor) Start(ctx context.Context) {
	m.stop = make(chan struct{})
	logger.Info("session monitor started", logger.Fields{
		"interval": m.interval.String(),
	})

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				if !m.checkSession() {
					return
				}
			}
		}
	}()
}

// checkSession returns false when monitoring should stop.
func (m *SessionMonitor) checkSession() bool {
	if !m.auth.IsAuthenticated() {
		logger.Info("session monitor detected expired session", nil)
		m.cache.ClearCache()
		return false
	}

	if m.auth.ExpiresWithin(expiryWarningWindow) {
		logger.Warn("session monitor token expiring soon", nil)
		if m.notifications != nil {
			m.notifications.Add(NotificationWarning, "Votre session expire bientôt, veuillez vous reconnecter", "")
		}
	}
	return true
}

// Stop halts the monitoring loop. Safe to call more than once, including
// concurrently.
func (m *SessionMonitor) Stop() {
	if m.stop == nil {
		return
	}
	m.stopOnce.Do(func() {
		close(m.stop)
		logger.Info("session monitor stopped", nil)
	})
}
