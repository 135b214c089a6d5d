package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Authenticator resolves a connection token to a player identity. Session
// issuance lives outside this process; the listener only checks the result.
type Authenticator interface {
	Authenticate(token string) (playerID string, err error)
}

type WebsocketListener struct {
	port uint16
	cm   *ConnectionManager
	auth Authenticator

	upgrader websocket.Upgrader
}

func NewWebsocketListener(port uint16, cm *ConnectionManager, auth Authenticator) *WebsocketListener {
	return &WebsocketListener{
		port: port,
		cm:   cm,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from a separate origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	// Shared context so all connections are canceled together on shutdown.
	connCtx, cancelConns := context.WithCancel(context.Background())
	defer cancelConns()

	var wg sync.WaitGroup

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		playerID, err := l.auth.Authenticate(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := l.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("upgrading connection", "error", err)
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.cm.AcceptConnection(connCtx, conn, playerID)
		}()
	})

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svr.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutting down websocket server", "error", err)
		}
		cancelConns()
		wg.Wait()
	}()

	slog.InfoContext(ctx, "listening for websockets", "port", l.port)

	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websockets on port %d: %w", l.port, err)
	}

	return nil
}
