package listener

import (
	"context"
	"io"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// SessionRunner runs one connected client until it leaves.
type SessionRunner interface {
	RunLine(ctx context.Context, id string, conn io.ReadWriter) error
	RunSocket(ctx context.Context, id string, conn *websocket.Conn) error
}

// ConnectionManager gives every accepted connection a session id and hands it
// to the session runner.
type ConnectionManager struct {
	sr    SessionRunner
	newID func() string
}

func NewConnectionManager(sr SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sr:    sr,
		newID: uuid.NewString,
	}
}

// AcceptConnection runs a line based session, as used by telnet and ssh.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	id := m.newID()
	if err := m.sr.RunLine(ctx, id, conn); err != nil {
		slog.WarnContext(ctx, "line session", "session", id, "error", err)
	}
	slog.InfoContext(ctx, "line session ended", "session", id)
}

// AcceptSocket runs a websocket session.
func (m *ConnectionManager) AcceptSocket(ctx context.Context, conn *websocket.Conn) {
	id := m.newID()
	if err := m.sr.RunSocket(ctx, id, conn); err != nil {
		slog.WarnContext(ctx, "socket session", "session", id, "error", err)
	}
	slog.InfoContext(ctx, "socket session ended", "session", id)
}
