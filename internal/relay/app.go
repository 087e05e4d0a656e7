package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"chatrelay/internal/config"
	"chatrelay/internal/identity"
)

// App coordinates the HTTP listener, websocket upgrades, and the shared
// room registry injected into every session.
type App struct {
	cfg         config.ServerConfig
	log         *slog.Logger
	registry    *Registry
	broadcaster *Broadcaster
	upgrader    websocket.Upgrader
}

// NewApp constructs a relay instance using the provided dependencies.
func NewApp(cfg config.ServerConfig, logger *slog.Logger) *App {
	registry := NewRegistry(identity.New)
	return &App{
		cfg:         cfg,
		log:         logger,
		registry:    registry,
		broadcaster: NewBroadcaster(registry, logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Registry exposes the shared room registry, primarily for tests.
func (a *App) Registry() *Registry { return a.registry }

// Handler returns the relay's HTTP routes.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/{room}", a.handleChat)
	return mux
}

func (a *App) handleChat(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room")
	if roomID == "" {
		http.Error(w, "room required", http.StatusBadRequest)
		return
	}

	ws, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		a.log.Warn("upgrade failed", "room", roomID, "error", err)
		return
	}
	ws.SetReadLimit(a.cfg.MaxFrameBytes)

	conn := NewConn(ws, a.cfg.WriteTimeout)
	NewSession(conn, roomID, a.registry, a.broadcaster, a.log).Run()
}

// Run serves the relay until the context is canceled, then shuts the
// listener down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.cfg.ListenAddr,
		Handler: a.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", a.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
