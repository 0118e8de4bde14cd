// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduring/songvote/auth"
)

// dialect covers the two spots where the engines diverge at the SQL
// level: placeholder style and constraint-violation detection. Everything
// else in this file runs identically on both.
type dialect interface {
	rebind(query string) string
	isUniqueViolation(err error) bool
	isForeignKeyViolation(err error) bool
}

func registerUser(ctx context.Context, db *sql.DB, d dialect, username, ip string) (int64, error) {
	now := time.Now().UTC()

	query := d.rebind(`
		INSERT INTO users
			(username, first_login_time, last_login_time, first_login_ip, last_login_ip, last_song_submission_time)
		VALUES (?, ?, ?, ?, ?, NULL)
		RETURNING user_id`)

	var userID int64
	err := db.QueryRowContext(ctx, query, auth.Obfuscate(username), now, now, ip, ip).Scan(&userID)
	if err != nil {
		slog.Error("failed to register user", "error", err)
		return 0, fmt.Errorf("failed to register user: %w", err)
	}

	return userID, nil
}

func userExists(ctx context.Context, db *sql.DB, d dialect, username string) (bool, error) {
	query := d.rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`)

	var exists bool
	err := db.QueryRowContext(ctx, query, auth.Obfuscate(username)).Scan(&exists)
	if err != nil {
		slog.Error("failed to check user existence", "error", err)
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

func findUser(ctx context.Context, db *sql.DB, d dialect, username string) (int64, error) {
	query := d.rebind(`SELECT user_id FROM users WHERE username = ?`)

	var userID int64
	err := db.QueryRowContext(ctx, query, auth.Obfuscate(username)).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		slog.Error("failed to find user", "error", err)
		return 0, fmt.Errorf("failed to find user: %w", err)
	}

	return userID, nil
}

func getUser(ctx context.Context, db *sql.DB, d dialect, userID int64) (*User, error) {
	query := d.rebind(`
		SELECT user_id, username, first_login_time, last_login_time,
		       first_login_ip, last_login_ip, last_song_submission_time
		FROM users WHERE user_id = ?`)

	var (
		u              User
		encodedName    string
		lastSubmission sql.NullTime
	)
	err := db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &encodedName, &u.FirstLogin, &u.LastLogin,
		&u.FirstLoginIP, &u.LastLoginIP, &lastSubmission,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		slog.Error("failed to get user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.Username, err = auth.Reveal(encodedName)
	if err != nil {
		return nil, fmt.Errorf("failed to decode username for user %d: %w", userID, err)
	}
	if lastSubmission.Valid {
		t := lastSubmission.Time
		u.LastSubmission = &t
	}

	u.VotedSongIDs, err = songIDList(ctx, db, d,
		`SELECT song_id FROM song_votes WHERE user_id = ? ORDER BY vote_time, song_id`, userID)
	if err != nil {
		return nil, err
	}
	u.SubmittedSongIDs, err = songIDList(ctx, db, d,
		`SELECT song_id FROM song_submissions WHERE user_id = ? ORDER BY submission_time, song_id`, userID)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// songIDList loads the derived, time-ordered song ID list for one side of
// a user association table.
func songIDList(ctx context.Context, db *sql.DB, d dialect, query string, userID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx, d.rebind(query), userID)
	if err != nil {
		slog.Error("failed to load song id list", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load song id list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan song id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read song ids: %w", err)
	}

	return ids, nil
}

func touchLogin(ctx context.Context, db *sql.DB, d dialect, userID int64, ip string) error {
	query := d.rebind(`UPDATE users SET last_login_time = ?, last_login_ip = ? WHERE user_id = ?`)

	// Unconditional update, no existence pre-check.
	_, err := db.ExecContext(ctx, query, time.Now().UTC(), ip, userID)
	if err != nil {
		slog.Error("failed to update login info", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update login info: %w", err)
	}

	return nil
}

func renameUser(ctx context.Context, db *sql.DB, d dialect, userID int64, newUsername string) error {
	query := d.rebind(`UPDATE users SET username = ? WHERE user_id = ?`)

	res, err := db.ExecContext(ctx, query, auth.Obfuscate(newUsername), userID)
	if err != nil {
		slog.Error("failed to rename user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to rename user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func submitSong(ctx context.Context, db *sql.DB, d dialect, userID int64, songID, songName string, explicit bool) error {
	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, d.rebind(`
		INSERT INTO songs (song_id, is_hidden, owner_user_id, song_name, is_explicit, vote_count)
		VALUES (?, ?, ?, ?, ?, 0)`),
		songID, false, userID, auth.Obfuscate(songName), explicit)
	if err != nil {
		if d.isUniqueViolation(err) {
			return ErrSongExists
		}
		if d.isForeignKeyViolation(err) {
			return ErrNotFound
		}
		slog.Error("failed to insert song", "error", err, "song_id", songID)
		return fmt.Errorf("failed to insert song: %w", err)
	}

	_, err = tx.ExecContext(ctx, d.rebind(`
		INSERT INTO song_submissions (user_id, song_id, submission_time)
		VALUES (?, ?, ?)`),
		userID, songID, now)
	if err != nil {
		slog.Error("failed to insert submission", "error", err, "song_id", songID)
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	res, err := tx.ExecContext(ctx, d.rebind(`
		UPDATE users SET last_song_submission_time = ? WHERE user_id = ?`),
		now, userID)
	if err != nil {
		slog.Error("failed to update submitter", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update submitter: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit song submission", "error", err, "song_id", songID)
		return fmt.Errorf("failed to commit song submission: %w", err)
	}

	return nil
}

func listSongs(ctx context.Context, db *sql.DB, d dialect) (map[string]SongView, error) {
	query := d.rebind(`
		SELECT s.song_id, s.is_hidden, s.owner_user_id, s.song_name, s.is_explicit, s.vote_count,
		       u.username, u.last_login_time, u.last_login_ip
		FROM songs s
		JOIN users u ON s.owner_user_id = u.user_id`)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		slog.Error("failed to list songs", "error", err)
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]SongView)
	for rows.Next() {
		var (
			songID          string
			v               SongView
			encodedSong     string
			encodedUsername string
		)
		err := rows.Scan(&songID, &v.Hidden, &v.OwnerUserID, &encodedSong, &v.Explicit, &v.VoteCount,
			&encodedUsername, &v.SubmitterLastLogin, &v.SubmitterLastIP)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}

		if v.Name, err = auth.Reveal(encodedSong); err != nil {
			return nil, fmt.Errorf("failed to decode song name for %s: %w", songID, err)
		}
		if v.SubmitterUsername, err = auth.Reveal(encodedUsername); err != nil {
			return nil, fmt.Errorf("failed to decode submitter name for %s: %w", songID, err)
		}

		result[songID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read song rows: %w", err)
	}

	return result, nil
}

func voteSong(ctx context.Context, db *sql.DB, d dialect, userID int64, songID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Fast path; the (user_id, song_id) primary key is the real guard
	// under concurrency.
	var voted bool
	err = tx.QueryRowContext(ctx, d.rebind(`
		SELECT EXISTS(SELECT 1 FROM song_votes WHERE user_id = ? AND song_id = ?)`),
		userID, songID).Scan(&voted)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err, "user_id", userID, "song_id", songID)
		return fmt.Errorf("failed to check existing vote: %w", err)
	}
	if voted {
		return ErrAlreadyVoted
	}

	_, err = tx.ExecContext(ctx, d.rebind(`
		INSERT INTO song_votes (user_id, song_id, vote_time)
		VALUES (?, ?, ?)`),
		userID, songID, time.Now().UTC())
	if err != nil {
		if d.isUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		if d.isForeignKeyViolation(err) {
			return ErrNotFound
		}
		slog.Error("failed to insert vote", "error", err, "user_id", userID, "song_id", songID)
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	res, err := tx.ExecContext(ctx, d.rebind(`
		UPDATE songs SET vote_count = vote_count + 1 WHERE song_id = ?`),
		songID)
	if err != nil {
		slog.Error("failed to increment vote count", "error", err, "song_id", songID)
		return fmt.Errorf("failed to increment vote count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err, "user_id", userID, "song_id", songID)
		return fmt.Errorf("failed to commit vote: %w", err)
	}

	return nil
}
