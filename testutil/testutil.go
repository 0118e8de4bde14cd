// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eduring/songvote/auth"
	"github.com/eduring/songvote/config"
	"github.com/eduring/songvote/store"
	_ "github.com/lib/pq"
)

// TestDBEnv names the environment variable holding the Postgres
// connection string for engine-equivalence tests. Without it the
// postgres subtests are skipped and only sqlite runs.
const TestDBEnv = "TEST_DATABASE_URL"

// TestAdminToken is the plain admin token test configs are built around.
const TestAdminToken = "test-admin-token"

// SetupSQLiteStore opens a store over a fresh temp-dir database file and
// creates the schema.
func SetupSQLiteStore(t *testing.T) store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "songvote-test.db")
	st, err := store.Open(config.DatabaseConfig{Engine: config.EngineSQLite, Path: path})
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create sqlite schema: %v", err)
	}
	return st
}

// SetupPostgresStore opens a store against TEST_DATABASE_URL with a clean
// schema, or skips the test when the variable is unset.
func SetupPostgresStore(t *testing.T) store.Store {
	t.Helper()

	dsn := os.Getenv(TestDBEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping postgres engine test", TestDBEnv)
	}

	// Drop leftovers from previous runs before recreating the schema.
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()
	_, err = db.Exec(`
		DROP TABLE IF EXISTS song_votes CASCADE;
		DROP TABLE IF EXISTS song_submissions CASCADE;
		DROP TABLE IF EXISTS songs CASCADE;
		DROP TABLE IF EXISTS users CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	st, err := store.Open(config.DatabaseConfig{Engine: config.EnginePostgres, URL: dsn})
	if err != nil {
		t.Fatalf("Failed to open postgres store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create postgres schema: %v", err)
	}
	return st
}

// ForEachStore runs fn as a subtest against every available engine. The
// engines must behave identically, so shared scenarios should always be
// written against this helper.
func ForEachStore(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, SetupSQLiteStore(t))
	})
	t.Run("postgres", func(t *testing.T) {
		fn(t, SetupPostgresStore(t))
	})
}

// GetTestConfig returns a standard test configuration. The admin token
// digest matches TestAdminToken.
func GetTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:      "127.0.0.1",
			Port:      5000,
			RateLimit: 1000, // effectively off for handler tests
			RateBurst: 1000,
		},
		Database: config.DatabaseConfig{Engine: config.EngineSQLite, Path: "unused"},
		Admin:    config.AdminConfig{TokenDigest: auth.Digest512(TestAdminToken)},
		General:  config.GeneralConfig{Timezone: "UTC"},
	}
}

// WriteTestConfigFile writes a YAML config file with the standard test
// admin digest and the given timezone, overwriting any previous content.
// Rewriting an existing file and hitting the reload endpoint is how
// reload tests change the live config.
func WriteTestConfigFile(t *testing.T, path, timezone string) {
	t.Helper()

	content := fmt.Sprintf(`server:
  host: 127.0.0.1
  port: 5000
  rate_limit: 1000
  rate_burst: 1000
database:
  engine: sqlite
  path: unused
admin:
  token_digest: %s
general:
  timezone: %s
`, auth.Digest512(TestAdminToken), timezone)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
}

// SetupManager builds a config manager backed by a temp-dir config file
// and returns both, so tests can rewrite the file and reload.
func SetupManager(t *testing.T) (*config.Manager, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	WriteTestConfigFile(t, path, "UTC")

	m, err := config.NewManager(config.Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Failed to build config manager: %v", err)
	}
	return m, path
}

// RegisterTestUser registers a user and returns the assigned ID.
func RegisterTestUser(t *testing.T, st store.Store, username, ip string) int64 {
	t.Helper()

	id, err := st.RegisterUser(context.Background(), username, ip)
	if err != nil {
		t.Fatalf("Failed to register test user: %v", err)
	}
	return id
}

// SubmitTestSong submits a song for an existing user.
func SubmitTestSong(t *testing.T, st store.Store, userID int64, songID, name string) {
	t.Helper()

	if err := st.SubmitSong(context.Background(), userID, songID, name, false); err != nil {
		t.Fatalf("Failed to submit test song: %v", err)
	}
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// MakeFormRequest creates an HTTP test request with form-encoded values,
// the shape the admin reload endpoint accepts.
func MakeFormRequest(method, path string, form map[string]string) *http.Request {
	vals := url.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
