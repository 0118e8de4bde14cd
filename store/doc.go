// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package store is the persistence core: users, songs, votes, and
submissions behind one repository interface with two interchangeable
storage engines.

# Engines

	st, err := store.Open(cfg.Database)

The engine is chosen once, at Open time:

  - postgres: client/server engine via lib/pq, one shared connection pool
  - sqlite: embedded file engine via modernc.org/sqlite, a fresh
    connection per call (closed on every exit path)

Both implementations must produce identical logical results and identical
error semantics; the test suite runs the same scenarios against both.

# Schema

EnsureSchema is called on every start. It creates the four relations only
when none of them exist and never drops or alters existing data:

	users             user_id PK, obfuscated username, login times/IPs
	songs             song_id PK, owner FK, obfuscated name, vote_count
	song_votes        (user_id, song_id) PK, vote_time
	song_submissions  user_id, song_id, submission_time

Postgres adds the foreign keys as separate ALTER TABLE statements after
creation; SQLite declares them inline since it cannot add them later.

A user's voted and submitted song ID lists are not stored; GetUser derives
them from the association tables in vote/submission order.

# Errors

Storage faults are logged at this boundary and returned wrapped; they
never panic past it. Absence is ErrNotFound, a duplicate vote is
ErrAlreadyVoted, a duplicate song ID is ErrSongExists. The composite
primary key on song_votes makes duplicate detection hold under concurrent
voting, not just via the existence pre-check.

# Known gaps

Username uniqueness is not a constraint: callers pre-check with
UserExists before RegisterUser, and two concurrent first sign-ins for the
same name can both register. Accepted for the low-traffic deployments
this service targets.
*/
package store
