package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	SocketPath = "/ws"

	shutdownTimeout = 5 * time.Second
)

// WebsocketListener serves browser clients. Each websocket carries JSON
// envelopes in both directions.
type WebsocketListener struct {
	port uint16
	cm   *ConnectionManager

	wg      sync.WaitGroup
	connCtx context.Context
	cancel  context.CancelFunc
}

func NewWebsocketListener(port uint16, cm *ConnectionManager) *WebsocketListener {
	connCtx, cancel := context.WithCancel(context.Background())
	return &WebsocketListener{
		port:    port,
		cm:      cm,
		connCtx: connCtx,
		cancel:  cancel,
	}
}

// Handler returns the http handler that upgrades requests on SocketPath.
func (l *WebsocketListener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SocketPath, l.accept)
	return mux
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: l.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "listening for websockets", "port", l.port, "path", SocketPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serving websockets on port %d: %w", l.port, err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		l.stop()
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	// Hijacked connections are not tracked by Shutdown, so end the sessions first.
	l.stop()
	return srv.Shutdown(shutdownCtx)
}

func (l *WebsocketListener) accept(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "accepting websocket", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()

	l.wg.Add(1)
	defer l.wg.Done()

	slog.InfoContext(r.Context(), "websocket connection established", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(l.connCtx)
	defer cancel()
	stop := context.AfterFunc(r.Context(), cancel)
	defer stop()

	l.cm.AcceptSocket(ctx, conn)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (l *WebsocketListener) stop() {
	l.cancel()
	l.wg.Wait()
}
