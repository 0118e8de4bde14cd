// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
)

// SQLite result codes this store cares about.
const (
	sqliteConstraint           = 19
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// sqliteStore opens a fresh connection for every call and closes it on
// every exit path, leaning on SQLite's file locking for cross-process
// exclusion. A throughput bottleneck under concurrent writers, accepted
// for the low-traffic deployments this engine targets.
type sqliteStore struct {
	dsn string
}

func openSQLite(path string) (*sqliteStore, error) {
	// _txlock=immediate makes write transactions take the lock up front,
	// so the vote existence check inside a transaction reads committed
	// state. busy_timeout retries instead of failing on a locked file.
	s := &sqliteStore{
		dsn: "file:" + path +
			"?_txlock=immediate" +
			"&_pragma=busy_timeout(5000)" +
			"&_pragma=foreign_keys(1)" +
			"&_pragma=journal_mode(WAL)",
	}

	// Verify the file is reachable before handing the store out.
	db, err := s.acquire()
	if err != nil {
		return nil, err
	}
	db.Close()

	return s, nil
}

func (s *sqliteStore) acquire() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// Close is a no-op: connections are scoped to single calls.
func (s *sqliteStore) Close() error {
	return nil
}

// rebind is the identity: the shared SQL already uses ? placeholders.
func (s *sqliteStore) rebind(query string) string {
	return query
}

func (s *sqliteStore) isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqliteConstraintPrimaryKey || code == sqliteConstraintUnique || code == sqliteConstraint
}

func (s *sqliteStore) isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqliteConstraintForeignKey
}

// SQLite cannot add foreign keys with ALTER TABLE, so they are declared
// inline at creation time.
var sqliteTables = []string{
	`CREATE TABLE users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT,
		first_login_time TIMESTAMP NOT NULL,
		last_login_time TIMESTAMP NOT NULL,
		first_login_ip TEXT,
		last_login_ip TEXT,
		last_song_submission_time TIMESTAMP
	)`,
	`CREATE TABLE songs (
		song_id TEXT PRIMARY KEY,
		is_hidden INTEGER NOT NULL DEFAULT 0,
		owner_user_id INTEGER,
		song_name TEXT,
		is_explicit INTEGER NOT NULL DEFAULT 0,
		vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
		FOREIGN KEY (owner_user_id) REFERENCES users (user_id)
	)`,
	`CREATE TABLE song_votes (
		user_id INTEGER NOT NULL,
		song_id TEXT NOT NULL,
		vote_time TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, song_id),
		FOREIGN KEY (user_id) REFERENCES users (user_id),
		FOREIGN KEY (song_id) REFERENCES songs (song_id)
	)`,
	`CREATE TABLE song_submissions (
		user_id INTEGER NOT NULL,
		song_id TEXT NOT NULL,
		submission_time TIMESTAMP NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users (user_id),
		FOREIGN KEY (song_id) REFERENCES songs (song_id)
	)`,
}

var sqliteIndexes = []string{
	`CREATE INDEX idx_users_username ON users (username)`,
	`CREATE INDEX idx_song_submissions_user ON song_submissions (user_id, submission_time)`,
}

func (s *sqliteStore) EnsureSchema(ctx context.Context) (SchemaResult, error) {
	db, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var present int
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table'
		  AND name IN ('users', 'songs', 'song_votes', 'song_submissions')`).Scan(&present)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect sqlite schema: %w", err)
	}
	if present > 0 {
		return SchemaPresent, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range sqliteTables {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, stmt := range sqliteIndexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit schema: %w", err)
	}
	return SchemaCreated, nil
}

func (s *sqliteStore) RegisterUser(ctx context.Context, username, ip string) (int64, error) {
	db, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return registerUser(ctx, db, s, username, ip)
}

func (s *sqliteStore) UserExists(ctx context.Context, username string) (bool, error) {
	db, err := s.acquire()
	if err != nil {
		return false, err
	}
	defer db.Close()
	return userExists(ctx, db, s, username)
}

func (s *sqliteStore) FindUser(ctx context.Context, username string) (int64, error) {
	db, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return findUser(ctx, db, s, username)
}

func (s *sqliteStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	db, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return getUser(ctx, db, s, userID)
}

func (s *sqliteStore) TouchLogin(ctx context.Context, userID int64, ip string) error {
	db, err := s.acquire()
	if err != nil {
		return err
	}
	defer db.Close()
	return touchLogin(ctx, db, s, userID, ip)
}

func (s *sqliteStore) RenameUser(ctx context.Context, userID int64, newUsername string) error {
	db, err := s.acquire()
	if err != nil {
		return err
	}
	defer db.Close()
	return renameUser(ctx, db, s, userID, newUsername)
}

func (s *sqliteStore) SubmitSong(ctx context.Context, userID int64, songID, songName string, explicit bool) error {
	db, err := s.acquire()
	if err != nil {
		return err
	}
	defer db.Close()
	return submitSong(ctx, db, s, userID, songID, songName, explicit)
}

func (s *sqliteStore) ListSongs(ctx context.Context) (map[string]SongView, error) {
	db, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return listSongs(ctx, db, s)
}

func (s *sqliteStore) VoteSong(ctx context.Context, userID int64, songID string) error {
	db, err := s.acquire()
	if err != nil {
		return err
	}
	defer db.Close()
	return voteSong(ctx, db, s, userID, songID)
}
