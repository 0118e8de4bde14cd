// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package router

import (
	"net/http"

	"github.com/eduring/songvote/config"
	"github.com/eduring/songvote/handlers"
	"github.com/eduring/songvote/middleware"
	"github.com/eduring/songvote/store"
)

func NewRouter(st store.Store, m *config.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(st)
	songHandler := handlers.NewSongHandler(st)
	adminHandler := handlers.NewAdminHandler(m)

	// Mutating endpoints are rate limited per client IP.
	cfg := m.Active()
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(limiter.WithRateLimit(h))
	}

	// Health check
	mux.HandleFunc("GET /health", handlers.Health)

	// User session
	mux.HandleFunc("POST /api/v1/login", limited(userHandler.Login))
	mux.HandleFunc("POST /api/v1/rename", limited(userHandler.Rename))

	// Song catalog and voting
	mux.HandleFunc("GET /api/v1/songs", middleware.WithLogging(songHandler.List))
	mux.HandleFunc("POST /api/v1/submit_song", limited(songHandler.Submit))
	mux.HandleFunc("POST /api/v1/vote", limited(songHandler.Vote))

	// Presentation
	mux.HandleFunc("GET /api/v1/color_scheme", middleware.WithLogging(adminHandler.ColorScheme))

	// Administration
	mux.HandleFunc("POST /api/v1/admin/reload_config", middleware.WithLogging(adminHandler.ReloadConfig))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("songvote API v1"))
	})

	return mux
}
