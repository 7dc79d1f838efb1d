package session

type ManagerOpt func(*Manager)

// WithOutboxSize sets how many undelivered messages a session may queue.
func WithOutboxSize(n int) ManagerOpt {
	return func(m *Manager) {
		if n > 0 {
			m.outboxSize = n
		}
	}
}
