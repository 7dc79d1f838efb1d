package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func startServer(t *testing.T) *NatsServer {
	t.Helper()

	ns, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- ns.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	if err := ns.WaitReady(waitCtx); err != nil {
		t.Fatalf("server never became ready: %v", err)
	}
	return ns
}

func TestNatsServer_NotStarted(t *testing.T) {
	ns, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = ns.Publish("anything", []byte("x"))
	if !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	_, err = ns.Subscribe("anything", func([]byte) {})
	if !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestNatsPublisher_Publish(t *testing.T) {
	ns := startServer(t)
	pub := NewNatsPublisher(ns)

	got := map[string]chan string{
		"s1": make(chan string, 1),
		"s2": make(chan string, 1),
		"s3": make(chan string, 1),
	}
	for id, ch := range got {
		unsub, err := pub.Subscribe(id, func(data []byte) { ch <- string(data) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Cleanup(unsub)
	}
	// Subscriptions must reach the server before the publish does.
	if err := ns.conn.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := pub.Publish([]string{"s1", "s2"}, []byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"s1", "s2"} {
		select {
		case msg := <-got[id]:
			testutil.AssertEqual(t, id, msg, "hello")
		case <-time.After(5 * time.Second):
			t.Fatalf("%s received nothing", id)
		}
	}

	select {
	case msg := <-got["s3"]:
		t.Fatalf("s3 should not receive anything, got %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSessionSubject(t *testing.T) {
	testutil.AssertEqual(t, "subject", SessionSubject("abc"), "session-abc")
}
