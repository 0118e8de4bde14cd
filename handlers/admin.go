// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eduring/songvote/auth"
	"github.com/eduring/songvote/config"
	"github.com/eduring/songvote/middleware"
	"github.com/eduring/songvote/models"
)

type AdminHandler struct {
	manager *config.Manager
}

func NewAdminHandler(m *config.Manager) *AdminHandler {
	return &AdminHandler{manager: m}
}

// ReloadConfig handles POST /api/v1/admin/reload_config. The admin
// token arrives as a form value and is checked against the configured
// digest. A bad or missing token gets a plain 404, indistinguishable
// from the route not existing.
func (h *AdminHandler) ReloadConfig(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if !auth.VerifyAdminToken(token, h.manager.Active().Admin.TokenDigest) {
		slog.Warn("admin token rejected", "remote", middleware.GetClientIP(r))
		http.NotFound(w, r)
		return
	}

	if _, err := h.manager.Reload(); err != nil {
		slog.Error("config reload failed, previous config stays active", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reload configuration")
		return
	}

	slog.Info("configuration reloaded")
	middleware.JSONResponse(w, http.StatusOK, models.ReloadConfigResponse{
		Message: "Configuration reloaded successfully",
	})
}

// ColorScheme handles GET /api/v1/color_scheme. The scheme follows the
// hour of day in the configured timezone.
func (h *AdminHandler) ColorScheme(w http.ResponseWriter, r *http.Request) {
	loc := h.manager.Active().Location()
	middleware.JSONResponse(w, http.StatusOK, models.ColorSchemeResponse{
		Scheme: schemeForHour(time.Now().In(loc).Hour()),
	})
}

func schemeForHour(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 16:
		return "day"
	case hour >= 16 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
