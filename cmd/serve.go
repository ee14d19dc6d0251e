package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lepinkainen/bibliotech/internal/config"
	"github.com/lepinkainen/bibliotech/internal/datastore"
	"github.com/lepinkainen/bibliotech/internal/server"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd represents the serve command
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run() error {
	addr := s.Addr
	if addr == "" {
		addr = config.ServerAddr
	}

	store, err := datastore.Open(config.DBFile)
	if err != nil {
		return fmt.Errorf("failed to open library database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close library database", "error", err)
		}
	}()

	handler := server.New(store, newSearchFlow(), slog.Default(), server.Options{
		AllowedOrigins: config.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting library server", "addr", addr, "db", config.DBFile)
	return serve(ctx, httpServer)
}

// serve runs srv until it fails or ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down library server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
