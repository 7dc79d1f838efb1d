package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/pixil98/dino-arena/internal/driver"
	"github.com/pixil98/dino-arena/internal/protocol"
)

// RunSocket runs a websocket session. Inbound frames are JSON envelopes passed
// straight to the game, and every message for the session is written back as is.
func (m *Manager) RunSocket(ctx context.Context, id string, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outbox, unsub, err := m.subscribe(ctx, id)
	if err != nil {
		return fmt.Errorf("subscribing session: %w", err)
	}
	defer unsub()
	defer m.disconnect(ctx, id)

	slog.InfoContext(ctx, "socket session started", "session", id)

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-outbox:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					slog.DebugContext(ctx, "writing to socket", "session", id, "error", err)
					return
				}
			}
		}
	}()

	for {
		var env protocol.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			if closedNormally(err) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading from socket: %w", err)
		}

		err := m.gw.Dispatch(ctx, id, env)
		switch {
		case err == nil:
		case errors.Is(err, driver.ErrStopped), ctx.Err() != nil:
			return err
		default:
			slog.WarnContext(ctx, "dispatching socket message", "session", id, "error", err)
		}
	}
}

func closedNormally(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
