// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eduring/songvote/config"
	"github.com/eduring/songvote/middleware"
	"github.com/eduring/songvote/router"
	"github.com/eduring/songvote/store"
)

func main() {
	// Local .env files supplement the environment; missing files are fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	opts, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	manager, err := config.NewManager(opts)
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	cfg := manager.Active()

	st, err := store.Open(cfg.Database)
	if err != nil {
		slog.Error("storage open failed", "engine", cfg.Database.Engine, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	res, err := st.EnsureSchema(context.Background())
	if err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "state", res.String(), "engine", cfg.Database.Engine)

	mux := router.NewRouter(st, manager)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "addr", server.Addr)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
