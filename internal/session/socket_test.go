package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/pixil98/dino-arena/internal/protocol"
	"github.com/pixil98/go-testutil"
)

func TestRunSocket(t *testing.T) {
	game, bus := newFakes()
	m := NewManager(game, bus)

	done := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			done <- err
			return
		}
		defer conn.CloseNow()
		done <- m.RunSocket(r.Context(), "s1", conn)
	}))
	defer srv.Close()

	ctx := t.Context()
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.CloseNow()

	create, err := protocol.NewEnvelope(protocol.MsgCreateRoom, protocol.CreateRoom{Name: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wsjson.Write(ctx, c, create); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reply protocol.Envelope
	if err := wsjson.Read(ctx, c, &reply); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reply type", reply.Type, protocol.MsgRoomCreated)

	msg, err := reply.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "code", msg.(*protocol.RoomCreated).Code, "ABCD")

	if err := c.Close(websocket.StatusNormalClosure, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "disconnected", strings.Join(game.disconnected, ","), "s1")
	testutil.AssertEqual(t, "still subscribed", bus.subscribed("s1"), false)
}
