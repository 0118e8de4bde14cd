// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/eduring/songvote/models"
	"github.com/eduring/songvote/store"
	"github.com/eduring/songvote/testutil"
)

func TestListSongs(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)

	id := testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")
	testutil.SubmitTestSong(t, st, id, "SONG1", "First Song")
	testutil.SubmitTestSong(t, st, id, "SONG2", "Second Song")

	req := testutil.MakeRequest("GET", "/api/v1/songs", nil, nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	testutil.AssertStatus(t, w, 200)
	var songs map[string]store.SongView
	testutil.AssertJSON(t, w, &songs)
	if len(songs) != 2 {
		t.Fatalf("Expected 2 songs, got %d", len(songs))
	}
	if songs["SONG1"].Name != "First Song" {
		t.Errorf("Expected song name 'First Song', got '%s'", songs["SONG1"].Name)
	}
	if songs["SONG1"].SubmitterUsername != "alice" {
		t.Errorf("Expected submitter 'alice', got '%s'", songs["SONG1"].SubmitterUsername)
	}
}

func TestListSongs_Empty(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)

	req := testutil.MakeRequest("GET", "/api/v1/songs", nil, nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	testutil.AssertStatus(t, w, 200)
	var songs map[string]store.SongView
	testutil.AssertJSON(t, w, &songs)
	if len(songs) != 0 {
		t.Errorf("Expected empty catalog, got %v", songs)
	}
}

func TestSubmitSong(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)
	testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")

	req := testutil.MakeRequest("POST", "/api/v1/submit_song",
		models.SubmitSongRequest{SongID: "SONG1", SongName: "Test Title", Explicit: true},
		map[string]string{AuthUserHeader: "alice"})
	w := httptest.NewRecorder()

	h.Submit(w, req)

	testutil.AssertStatus(t, w, 201)
	var resp models.SubmitSongResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.SongID != "SONG1" {
		t.Errorf("Expected song_id 'SONG1', got '%s'", resp.SongID)
	}

	songs, err := st.ListSongs(req.Context())
	if err != nil {
		t.Fatalf("ListSongs() error = %v", err)
	}
	if !songs["SONG1"].Explicit {
		t.Error("Expected explicit flag to persist")
	}
}

func TestSubmitSong_Duplicate(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)
	id := testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")
	testutil.SubmitTestSong(t, st, id, "SONG1", "Test Title")

	req := testutil.MakeRequest("POST", "/api/v1/submit_song",
		models.SubmitSongRequest{SongID: "SONG1", SongName: "Whatever"},
		map[string]string{AuthUserHeader: "alice"})
	w := httptest.NewRecorder()

	h.Submit(w, req)

	testutil.AssertStatus(t, w, 409)
}

func TestSubmitSong_Validation(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)
	testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")

	testCases := []struct {
		name       string
		identity   string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "missing identity",
			identity:   "",
			body:       models.SubmitSongRequest{SongID: "S", SongName: "N"},
			wantStatus: 401,
		},
		{
			name:       "unknown user",
			identity:   "stranger",
			body:       models.SubmitSongRequest{SongID: "S", SongName: "N"},
			wantStatus: 401,
		},
		{
			name:       "missing song_id",
			identity:   "alice",
			body:       models.SubmitSongRequest{SongName: "N"},
			wantStatus: 400,
		},
		{
			name:       "missing song_name",
			identity:   "alice",
			body:       models.SubmitSongRequest{SongID: "S"},
			wantStatus: 400,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.identity != "" {
				headers[AuthUserHeader] = tc.identity
			}
			req := testutil.MakeRequest("POST", "/api/v1/submit_song", tc.body, headers)
			w := httptest.NewRecorder()

			h.Submit(w, req)

			testutil.AssertStatus(t, w, tc.wantStatus)
		})
	}
}

func TestVote(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)
	id := testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")
	testutil.SubmitTestSong(t, st, id, "SONG1", "Test Title")

	req := testutil.MakeRequest("POST", "/api/v1/vote",
		models.VoteRequest{SongID: "SONG1"},
		map[string]string{AuthUserHeader: "alice"})
	w := httptest.NewRecorder()

	h.Vote(w, req)

	testutil.AssertStatus(t, w, 200)

	songs, err := st.ListSongs(req.Context())
	if err != nil {
		t.Fatalf("ListSongs() error = %v", err)
	}
	if songs["SONG1"].VoteCount != 1 {
		t.Errorf("Expected vote count 1, got %d", songs["SONG1"].VoteCount)
	}
}

func TestVote_Duplicate(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)
	id := testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")
	testutil.SubmitTestSong(t, st, id, "SONG1", "Test Title")

	vote := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/v1/vote",
			models.VoteRequest{SongID: "SONG1"},
			map[string]string{AuthUserHeader: "alice"})
		w := httptest.NewRecorder()
		h.Vote(w, req)
		return w
	}

	testutil.AssertStatus(t, vote(), 200)
	testutil.AssertStatus(t, vote(), 409)
}

func TestVote_UnknownSong(t *testing.T) {
	st := testutil.SetupSQLiteStore(t)
	h := NewSongHandler(st)
	testutil.RegisterTestUser(t, st, "alice", "1.2.3.4")

	req := testutil.MakeRequest("POST", "/api/v1/vote",
		models.VoteRequest{SongID: "NO_SUCH_SONG"},
		map[string]string{AuthUserHeader: "alice"})
	w := httptest.NewRecorder()

	h.Vote(w, req)

	testutil.AssertStatus(t, w, 404)
}
