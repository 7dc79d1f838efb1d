package session

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/dino-arena/internal/protocol"
)

// fakeGame records dispatched messages and answers a create-room with a
// room-created message, the way the gateway does.
type fakeGame struct {
	mu           sync.Mutex
	bus          *fakeBus
	dispatched   []protocol.Envelope
	disconnected []string
}

func (g *fakeGame) Dispatch(_ context.Context, session string, env protocol.Envelope) error {
	g.mu.Lock()
	g.dispatched = append(g.dispatched, env)
	g.mu.Unlock()

	if env.Type == protocol.MsgCreateRoom {
		reply, err := protocol.NewEnvelope(protocol.MsgRoomCreated, protocol.RoomCreated{Code: "ABCD"})
		if err != nil {
			return err
		}
		g.bus.send(session, reply)
	}
	return nil
}

func (g *fakeGame) Disconnect(_ context.Context, session string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disconnected = append(g.disconnected, session)
	return nil
}

func (g *fakeGame) types() []protocol.MessageType {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []protocol.MessageType
	for _, env := range g.dispatched {
		out = append(out, env.Type)
	}
	return out
}

type fakeBus struct {
	mu       sync.Mutex
	handlers map[string]func([]byte)
}

func (b *fakeBus) Subscribe(session string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[session] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, session)
	}, nil
}

func (b *fakeBus) send(session string, env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	h := b.handlers[session]
	b.mu.Unlock()
	if h != nil {
		h(data)
	}
}

func (b *fakeBus) subscribed(session string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handlers[session]
	return ok
}

func newFakes() (*fakeGame, *fakeBus) {
	bus := &fakeBus{handlers: map[string]func([]byte){}}
	return &fakeGame{bus: bus}, bus
}

// transcript is an io.Writer safe to read while a session writes to it.
type transcript struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (t *transcript) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Write(p)
}

func (t *transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

// waitFor fails the test unless cond holds within a second.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitForText(t *testing.T, out *transcript, text string) {
	t.Helper()
	waitFor(t, "output "+text, func() bool { return strings.Contains(out.String(), text) })
}
