// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eduring/songvote/middleware"
	"github.com/eduring/songvote/models"
	"github.com/eduring/songvote/store"
)

// AuthUserHeader carries the username asserted by the identity proxy in
// front of the server. The server trusts it; authentication happens
// upstream.
const AuthUserHeader = "X-Auth-User"

type UserHandler struct {
	store store.Store
}

func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// authUsername extracts the proxy-asserted username from the request.
func authUsername(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(AuthUserHeader))
}

// Login handles POST /api/v1/login. First sight of a username registers
// it; later logins refresh the last-login time and IP.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := authUsername(r)
	if username == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, AuthUserHeader+" header required")
		return
	}
	clientIP := middleware.GetClientIP(r)

	exists, err := h.store.UserExists(r.Context(), username)
	if err != nil {
		slog.Error("failed to check user existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !exists {
		id, err := h.store.RegisterUser(r.Context(), username, clientIP)
		if err != nil {
			slog.Error("failed to register user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
			return
		}

		slog.Info("user registered", "user_id", id)
		middleware.JSONResponse(w, http.StatusCreated, models.LoginResponse{
			UserID:   id,
			Username: username,
			NewUser:  true,
		})
		return
	}

	id, err := h.store.FindUser(r.Context(), username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := h.store.TouchLogin(r.Context(), id, clientIP); err != nil {
		slog.Error("failed to update login time", "error", err, "user_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		UserID:   id,
		Username: username,
		NewUser:  false,
	})
}

// Rename handles POST /api/v1/rename
func (h *UserHandler) Rename(w http.ResponseWriter, r *http.Request) {
	username := authUsername(r)
	if username == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, AuthUserHeader+" header required")
		return
	}

	var req models.RenameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	newName := strings.TrimSpace(req.NewUsername)
	if newName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "new_username is required")
		return
	}
	if len(newName) > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "new_username must be at most 100 characters")
		return
	}
	if newName == username {
		middleware.ErrorResponse(w, http.StatusBadRequest, "new username matches the current one")
		return
	}

	id, err := h.store.FindUser(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "unknown user, log in first")
		return
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	taken, err := h.store.UserExists(r.Context(), newName)
	if err != nil {
		slog.Error("failed to check new username", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "username already taken")
		return
	}

	if err := h.store.RenameUser(r.Context(), id, newName); err != nil {
		slog.Error("failed to rename user", "error", err, "user_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to rename user")
		return
	}

	slog.Info("user renamed", "user_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.RenameResponse{
		Username: newName,
		Message:  "Username updated successfully",
	})
}
