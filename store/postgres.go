// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// postgresStore serves all operations through one pooled *sql.DB; the
// pool hands each in-flight request its own connection.
type postgresStore struct {
	db *sql.DB
}

func openPostgres(dsn string) (*postgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into the $1..$n form lib/pq expects.
// None of the store's SQL contains a literal question mark.
func (s *postgresStore) rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *postgresStore) isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *postgresStore) isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

var postgresTables = []string{
	`CREATE TABLE users (
		user_id BIGSERIAL PRIMARY KEY,
		username TEXT,
		first_login_time TIMESTAMPTZ NOT NULL,
		last_login_time TIMESTAMPTZ NOT NULL,
		first_login_ip TEXT,
		last_login_ip TEXT,
		last_song_submission_time TIMESTAMPTZ
	)`,
	`CREATE TABLE songs (
		song_id TEXT PRIMARY KEY,
		is_hidden BOOLEAN NOT NULL DEFAULT FALSE,
		owner_user_id BIGINT,
		song_name TEXT,
		is_explicit BOOLEAN NOT NULL DEFAULT FALSE,
		vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0)
	)`,
	`CREATE TABLE song_votes (
		user_id BIGINT NOT NULL,
		song_id TEXT NOT NULL,
		vote_time TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, song_id)
	)`,
	`CREATE TABLE song_submissions (
		user_id BIGINT NOT NULL,
		song_id TEXT NOT NULL,
		submission_time TIMESTAMPTZ NOT NULL
	)`,
}

// Foreign keys are added after table creation, as separate statements.
var postgresConstraints = []string{
	`ALTER TABLE songs ADD CONSTRAINT songs_owner_fk FOREIGN KEY (owner_user_id) REFERENCES users (user_id)`,
	`ALTER TABLE song_votes ADD CONSTRAINT song_votes_user_fk FOREIGN KEY (user_id) REFERENCES users (user_id)`,
	`ALTER TABLE song_votes ADD CONSTRAINT song_votes_song_fk FOREIGN KEY (song_id) REFERENCES songs (song_id)`,
	`ALTER TABLE song_submissions ADD CONSTRAINT song_submissions_user_fk FOREIGN KEY (user_id) REFERENCES users (user_id)`,
	`ALTER TABLE song_submissions ADD CONSTRAINT song_submissions_song_fk FOREIGN KEY (song_id) REFERENCES songs (song_id)`,
}

var postgresIndexes = []string{
	`CREATE INDEX idx_users_username ON users (username)`,
	`CREATE INDEX idx_song_submissions_user ON song_submissions (user_id, submission_time)`,
	`CREATE INDEX idx_song_votes_user ON song_votes (user_id, vote_time)`,
}

func (s *postgresStore) EnsureSchema(ctx context.Context) (SchemaResult, error) {
	var present int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name IN ('users', 'songs', 'song_votes', 'song_submissions')`).Scan(&present)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect postgres schema: %w", err)
	}
	if present > 0 {
		return SchemaPresent, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range postgresTables {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, stmt := range postgresConstraints {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to add constraint: %w", err)
		}
	}
	for _, stmt := range postgresIndexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit schema: %w", err)
	}
	return SchemaCreated, nil
}

func (s *postgresStore) RegisterUser(ctx context.Context, username, ip string) (int64, error) {
	return registerUser(ctx, s.db, s, username, ip)
}

func (s *postgresStore) UserExists(ctx context.Context, username string) (bool, error) {
	return userExists(ctx, s.db, s, username)
}

func (s *postgresStore) FindUser(ctx context.Context, username string) (int64, error) {
	return findUser(ctx, s.db, s, username)
}

func (s *postgresStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	return getUser(ctx, s.db, s, userID)
}

func (s *postgresStore) TouchLogin(ctx context.Context, userID int64, ip string) error {
	return touchLogin(ctx, s.db, s, userID, ip)
}

func (s *postgresStore) RenameUser(ctx context.Context, userID int64, newUsername string) error {
	return renameUser(ctx, s.db, s, userID, newUsername)
}

func (s *postgresStore) SubmitSong(ctx context.Context, userID int64, songID, songName string, explicit bool) error {
	return submitSong(ctx, s.db, s, userID, songID, songName, explicit)
}

func (s *postgresStore) ListSongs(ctx context.Context) (map[string]SongView, error) {
	return listSongs(ctx, s.db, s)
}

func (s *postgresStore) VoteSong(ctx context.Context, userID int64, songID string) error {
	return voteSong(ctx, s.db, s, userID, songID)
}
