package editor

import (
	"context"
	"time"
)

// Start launches the background sweeper that expires idle sessions.
func (m *Manager) Start(ctx context.Context) error {
	interval := time.Duration(m.config.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	m.logger.WithField("sweep_interval", interval.String()).Info("Starting editor session sweeper")

	m.wg.Add(1)
	go m.sweepLoop(ctx, interval)

	return nil
}

// Stop stops the sweeper and closes every open session.
func (m *Manager) Stop() {
	m.logger.Info("Stopping editor session manager...")

	close(m.stopCh)
	m.wg.Wait()

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, session := range m.sessions {
		sessions = append(sessions, session)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}

	m.logger.Info("Editor session manager stopped")
}

func (m *Manager) sweepLoop(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Editor sweeper stopped by context")
			return
		case <-m.stopCh:
			return
		case now := <-ticker.C:
			if removed := m.sweep(now); removed > 0 {
				m.logger.WithField("removed", removed).Debug("Swept idle editor sessions")
			}
		}
	}
}
