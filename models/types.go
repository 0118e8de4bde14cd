// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package models

// Request types

type SubmitSongRequest struct {
	SongID   string `json:"song_id"`
	SongName string `json:"song_name"`
	Explicit bool   `json:"is_explicit"`
}

type VoteRequest struct {
	SongID string `json:"song_id"`
}

type RenameRequest struct {
	NewUsername string `json:"new_username"`
}

// Response types

type LoginResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	NewUser  bool   `json:"new_user"`
}

type SubmitSongResponse struct {
	SongID  string `json:"song_id"`
	Message string `json:"message"`
}

type VoteResponse struct {
	SongID  string `json:"song_id"`
	Message string `json:"message"`
}

type RenameResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type ColorSchemeResponse struct {
	Scheme string `json:"color_scheme"`
}

type ReloadConfigResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
