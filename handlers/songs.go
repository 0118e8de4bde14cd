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

type SongHandler struct {
	store store.Store
}

func NewSongHandler(st store.Store) *SongHandler {
	return &SongHandler{store: st}
}

// resolveUser maps the proxy-asserted username to a user ID, writing
// the error response itself on failure.
func (h *SongHandler) resolveUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	username := authUsername(r)
	if username == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, AuthUserHeader+" header required")
		return 0, false
	}

	id, err := h.store.FindUser(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "unknown user, log in first")
		return 0, false
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/songs
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	songs, err := h.store.ListSongs(r.Context())
	if err != nil {
		slog.Error("failed to list songs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, songs)
}

// Submit handles POST /api/v1/submit_song
func (h *SongHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req models.SubmitSongRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	songID := strings.TrimSpace(req.SongID)
	songName := strings.TrimSpace(req.SongName)
	if songID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "song_id is required")
		return
	}
	if songName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "song_name is required")
		return
	}

	err := h.store.SubmitSong(r.Context(), userID, songID, songName, req.Explicit)
	switch {
	case errors.Is(err, store.ErrSongExists):
		middleware.ErrorResponse(w, http.StatusConflict, "song already submitted")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "unknown user, log in first")
		return
	case err != nil:
		slog.Error("failed to submit song", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit song")
		return
	}

	slog.Info("song submitted", "user_id", userID, "song_id", songID)
	middleware.JSONResponse(w, http.StatusCreated, models.SubmitSongResponse{
		SongID:  songID,
		Message: "Song submitted successfully",
	})
}

// Vote handles POST /api/v1/vote
func (h *SongHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	songID := strings.TrimSpace(req.SongID)
	if songID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "song_id is required")
		return
	}

	err := h.store.VoteSong(r.Context(), userID, songID)
	switch {
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "already voted for this song")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "song not found")
		return
	case err != nil:
		slog.Error("failed to record vote", "error", err, "user_id", userID, "song_id", songID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "user_id", userID, "song_id", songID)
	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		SongID:  songID,
		Message: "Vote recorded successfully",
	})
}
