package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/dino-arena/internal/protocol"
)

const (
	DefaultOutboxSize = 512

	disconnectTimeout = 5 * time.Second
)

// Dispatcher applies a session's messages to the game.
type Dispatcher interface {
	Dispatch(ctx context.Context, session string, env protocol.Envelope) error
	Disconnect(ctx context.Context, session string) error
}

// Subscriber delivers messages addressed to a session.
type Subscriber interface {
	Subscribe(session string, handler func(data []byte)) (func(), error)
}

// Manager runs connected sessions, line based or websocket, against the game.
type Manager struct {
	gw         Dispatcher
	sub        Subscriber
	outboxSize int
}

func NewManager(gw Dispatcher, sub Subscriber, opts ...ManagerOpt) *Manager {
	m := &Manager{
		gw:         gw,
		sub:        sub,
		outboxSize: DefaultOutboxSize,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// subscribe queues every message for id on a buffered channel. Messages that do
// not fit are dropped so a slow client never holds up the game.
func (m *Manager) subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	outbox := make(chan []byte, m.outboxSize)
	unsub, err := m.sub.Subscribe(id, func(data []byte) {
		select {
		case outbox <- data:
		default:
			slog.WarnContext(ctx, "session outbox full, dropping message", "session", id)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return outbox, unsub, nil
}

// disconnect removes id from the game even when ctx is already canceled.
func (m *Manager) disconnect(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
	defer cancel()

	if err := m.gw.Disconnect(ctx, id); err != nil {
		slog.WarnContext(ctx, "disconnecting session", "session", id, "error", err)
	}
}
