// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitSongRequest: song_id, song_name, is_explicit
  - VoteRequest: song_id
  - RenameRequest: new_username

# Response Types

Types for JSON responses:

  - LoginResponse: user_id, username, new_user
  - SubmitSongResponse: song_id, message
  - VoteResponse: song_id, message
  - RenameResponse: username, message
  - ColorSchemeResponse: color_scheme
  - ReloadConfigResponse: message
  - HealthResponse: status
  - ErrorResponse: error, message

The song catalog returned by GET /api/v1/songs uses store.SongView
directly; its JSON field names match the persisted column names.
*/
package models
