// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package store

import "time"

// User is a registered account. Username is revealed (de-obfuscated)
// before the record leaves the store. VotedSongIDs and SubmittedSongIDs
// are derived from the association tables in vote/submission order.
type User struct {
	ID               int64      `json:"user_id"`
	Username         string     `json:"username"`
	FirstLogin       time.Time  `json:"first_login_time"`
	LastLogin        time.Time  `json:"last_login_time"`
	FirstLoginIP     string     `json:"first_login_ip"`
	LastLoginIP      string     `json:"last_login_ip"`
	LastSubmission   *time.Time `json:"last_song_submission_time,omitempty"`
	VotedSongIDs     []string   `json:"voted_song_ids"`
	SubmittedSongIDs []string   `json:"submitted_song_ids"`
}

// SongView is one row of the songs-with-submitters listing. Song name and
// submitter username are revealed before the view leaves the store.
type SongView struct {
	Hidden             bool      `json:"is_hidden"`
	OwnerUserID        int64     `json:"user_id"`
	Name               string    `json:"song_name"`
	Explicit           bool      `json:"is_explicit"`
	VoteCount          int       `json:"vote_count"`
	SubmitterUsername  string    `json:"submitter_username"`
	SubmitterLastLogin time.Time `json:"submitter_last_login"`
	SubmitterLastIP    string    `json:"submitter_last_ip"`
}
