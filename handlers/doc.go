// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package handlers implements the HTTP endpoints.

# Identity

Authentication happens in a proxy upstream; requests arrive with the
asserted username in the X-Auth-User header. Login registers unseen
usernames and refreshes login metadata for known ones. All other
user-scoped endpoints require a prior login.

# Handlers

  - UserHandler: Login (POST /api/v1/login), Rename (POST /api/v1/rename)
  - SongHandler: List (GET /api/v1/songs), Submit (POST /api/v1/submit_song),
    Vote (POST /api/v1/vote)
  - AdminHandler: ReloadConfig (POST /api/v1/admin/reload_config),
    ColorScheme (GET /api/v1/color_scheme)
  - Health: GET /health

# Error Mapping

Store sentinels map onto HTTP statuses: ErrSongExists and
ErrAlreadyVoted become 409 Conflict, ErrNotFound becomes 404 for songs
and 401 for unresolved identities. A bad admin token gets a plain 404
rather than 401/403, so probing the admin route reveals nothing.
*/
package handlers
