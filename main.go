// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/cliparse"
	"github.com/Pushkar-sharma02/e-Vote-Backend/metrics"
	"github.com/Pushkar-sharma02/e-Vote-Backend/router"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store/mongostore"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store/sqlstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

// run serves the API until ctx is cancelled. The store is closed only after
// in-flight requests have drained.
func run(ctx context.Context, cfg cliparse.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer st.Close()
	slog.Info("Database ready", "type", cfg.DatabaseType)

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Port))
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           router.NewRouter(st, cfg, metrics.New()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Listening", "addr", ln.Addr().String())
	return serve(ctx, server, ln)
}

// serve runs server on ln until ctx is done, then waits up to
// shutdownTimeout for active requests before returning.
func serve(ctx context.Context, server *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		server.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg cliparse.Config) (store.Store, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres:
		return sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL)
	case cliparse.DatabaseSQLite:
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.DatabaseURL)
	case cliparse.DatabaseMongo:
		return mongostore.Open(ctx, cfg.DatabaseURL, "")
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}
