package messaging

import "fmt"

// SessionSubject is the subject a connected session listens on.
func SessionSubject(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// NatsPublisher publishes messages to individual session NATS channels.
type NatsPublisher struct {
	server *NatsServer
}

// NewNatsPublisher wraps a NatsServer for per-session message delivery.
func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// Publish sends data to every listed session, returning the first error.
func (p *NatsPublisher) Publish(sessions []string, data []byte) error {
	var firstErr error
	for _, id := range sessions {
		if err := p.server.Publish(SessionSubject(id), data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Subscribe delivers every message sent to the session to handler.
func (p *NatsPublisher) Subscribe(sessionID string, handler func(data []byte)) (func(), error) {
	return p.server.Subscribe(SessionSubject(sessionID), handler)
}
