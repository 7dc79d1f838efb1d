package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/dino-arena/internal/driver"
	"github.com/pixil98/dino-arena/internal/lobby"
	"github.com/pixil98/dino-arena/internal/physics"
	"github.com/pixil98/dino-arena/internal/protocol"
	"github.com/pixil98/dino-arena/internal/room"
)

// Publisher delivers encoded envelopes to sessions.
type Publisher interface {
	Publish(sessions []string, data []byte) error
}

// Executor runs fn on the goroutine that owns all game state and waits for it.
type Executor interface {
	Do(ctx context.Context, fn func()) error
	driver.Scheduler
}

// Gateway turns envelopes from any transport into room and directory operations,
// and room events into envelopes for the sessions seated in the room.
type Gateway struct {
	exec Executor
	pub  Publisher
	dir  *lobby.Directory
}

func New(exec Executor, pub Publisher, opts ...lobby.DirectoryOpt) *Gateway {
	g := &Gateway{
		exec: exec,
		pub:  pub,
	}
	g.dir = lobby.NewDirectory(g, exec, opts...)
	return g
}

// Directory returns the room directory. It must only be used from the loop.
func (g *Gateway) Directory() *lobby.Directory {
	return g.dir
}

// Publish implements room.EventSink.
func (g *Gateway) Publish(src *room.Room, ev room.Event) {
	env, err := protocol.FromEvent(ev)
	if err != nil {
		slog.Error("encoding room event", "room", src.Code(), "event", ev.Kind(), "error", err)
		return
	}
	g.send(src.HumanIDs(), env)
}

// Dispatch applies one inbound envelope for session. Replies and rejections are
// sent back to the session like any other message. The returned error is only
// set when the envelope could not be processed at all.
func (g *Gateway) Dispatch(ctx context.Context, session string, env protocol.Envelope) error {
	msg, err := env.Parse()
	if err != nil {
		g.reply(session, protocol.MsgError, protocol.Error{Message: "unrecognized message"})
		return fmt.Errorf("parsing message from %s: %w", session, err)
	}

	return g.do(ctx, func() {
		err := g.apply(session, msg)
		if err == nil {
			return
		}
		if room.KindOf(err) == room.KindNone {
			slog.Error("applying message", "session", session, "type", env.Type, "error", err)
		}
		g.reply(session, protocol.MsgError, protocol.Error{Message: err.Error()})
	})
}

// Disconnect unseats the session from whatever room it is in.
func (g *Gateway) Disconnect(ctx context.Context, session string) error {
	return g.do(ctx, func() {
		err := g.dir.RemoveParticipant(session)
		if err != nil && !errors.Is(err, room.ErrNotInRoom) {
			slog.Warn("removing participant", "session", session, "error", err)
		}
	})
}

func (g *Gateway) apply(session string, msg any) error {
	switch m := msg.(type) {
	case *protocol.CreateRoom:
		r, err := g.dir.CreateRoom(session, m.Name)
		if err != nil {
			return err
		}
		g.reply(session, protocol.MsgRoomCreated, protocol.RoomCreated{Code: r.Code()})
		return nil

	case *protocol.JoinRoom:
		_, err := g.dir.JoinRoom(m.Code, session, m.Name)
		if err != nil {
			if room.KindOf(err) == room.KindNone {
				return err
			}
			g.reply(session, protocol.MsgJoinResult, protocol.JoinResult{Error: err.Error()})
			return nil
		}
		g.reply(session, protocol.MsgJoinResult, protocol.JoinResult{Success: true})
		return nil

	case *protocol.PlayerReady:
		return g.withRoom(session, func(r *room.Room) error { return r.SetReady(session) })
	case *protocol.StartGame:
		return g.withRoom(session, func(r *room.Room) error { return r.StartGame(session) })
	case *protocol.AddBot:
		return g.withRoom(session, func(r *room.Room) error { return r.AddBot(session) })
	case *protocol.RemoveBot:
		return g.withRoom(session, func(r *room.Room) error { return r.RemoveBot(session) })
	case *protocol.PlayAgain:
		return g.withRoom(session, func(r *room.Room) error { return r.PlayAgain(session) })

	case *protocol.PlayerInput:
		return g.withRoom(session, func(r *room.Room) error {
			err := r.SubmitInput(session, physics.Input{Angle: m.Angle, Power: m.Power})
			// Late pushes are dropped without complaint.
			if errors.Is(err, room.ErrWrongState) {
				return nil
			}
			return err
		})

	default:
		return room.ErrWrongState
	}
}

func (g *Gateway) withRoom(session string, fn func(*room.Room) error) error {
	r, ok := g.dir.RoomByParticipant(session)
	if !ok {
		return room.ErrNotInRoom
	}
	return fn(r)
}

func (g *Gateway) do(ctx context.Context, fn func()) error {
	if err := g.exec.Do(ctx, fn); err != nil {
		return fmt.Errorf("running on loop: %w", err)
	}
	return nil
}

func (g *Gateway) reply(session string, t protocol.MessageType, payload any) {
	env, err := protocol.NewEnvelope(t, payload)
	if err != nil {
		slog.Error("encoding reply", "session", session, "type", t, "error", err)
		return
	}
	g.send([]string{session}, env)
}

func (g *Gateway) send(sessions []string, env protocol.Envelope) {
	if len(sessions) == 0 {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("encoding envelope", "type", env.Type, "error", err)
		return
	}
	if err := g.pub.Publish(sessions, data); err != nil {
		slog.Warn("publishing envelope", "type", env.Type, "sessions", len(sessions), "error", err)
	}
}
