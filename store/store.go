// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduring/songvote/config"
)

// Sentinel results. Handlers match these with errors.Is; anything else
// coming out of a Store is a storage fault.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyVoted = errors.New("already voted")
	ErrSongExists   = errors.New("song already submitted")
)

// SchemaResult reports what EnsureSchema found.
type SchemaResult int

const (
	SchemaCreated SchemaResult = iota
	SchemaPresent
)

func (r SchemaResult) String() string {
	switch r {
	case SchemaCreated:
		return "created"
	case SchemaPresent:
		return "already present"
	default:
		return "unknown"
	}
}

// Store is the repository surface consumed by the web layer. Both storage
// engines implement it with identical logical results and identical error
// semantics; the engine is chosen once, at Open time.
type Store interface {
	// EnsureSchema creates the four relations when the target store is
	// empty. Idempotent and non-destructive: existing tables are never
	// dropped or altered.
	EnsureSchema(ctx context.Context) (SchemaResult, error)

	// RegisterUser stores a new user with the current time as both first
	// and last login and ip as both IPs, and returns the engine-assigned
	// surrogate key. Username uniqueness is not enforced here; callers
	// pre-check with UserExists (known race, see package doc).
	RegisterUser(ctx context.Context, username, ip string) (int64, error)

	// UserExists reports whether a user with the exact username is
	// registered. A storage fault is returned alongside false; callers
	// deliberately fail open toward registration.
	UserExists(ctx context.Context, username string) (bool, error)

	// FindUser resolves a username to its surrogate key. ErrNotFound when
	// no user matches.
	FindUser(ctx context.Context, username string) (int64, error)

	// GetUser loads a user by surrogate key, including the derived voted
	// and submitted song ID lists. ErrNotFound when absent.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// TouchLogin unconditionally refreshes the last-login time and IP.
	TouchLogin(ctx context.Context, userID int64, ip string) error

	// RenameUser replaces the stored username.
	RenameUser(ctx context.Context, userID int64, newUsername string) error

	// SubmitSong records a new song, its submission row, and the owner's
	// last-submission time in one transaction. ErrSongExists when the
	// song ID is already taken, ErrNotFound when the owner is missing.
	SubmitSong(ctx context.Context, userID int64, songID, songName string, explicit bool) error

	// ListSongs returns every song joined with its submitter, keyed by
	// song ID. Empty map when there are no songs.
	ListSongs(ctx context.Context) (map[string]SongView, error)

	// VoteSong records one vote per user per song and bumps the song's
	// vote count by exactly one, atomically. ErrAlreadyVoted for a
	// duplicate, ErrNotFound when the song is missing.
	VoteSong(ctx context.Context, userID int64, songID string) error

	Close() error
}

// Open constructs the Store for the configured engine.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Engine {
	case config.EnginePostgres:
		return openPostgres(cfg.URL)
	case config.EngineSQLite:
		return openSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}
