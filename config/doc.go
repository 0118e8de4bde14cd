// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package config loads and manages the server configuration.

# Layers

Configuration is assembled from three layers, lowest priority first:

 1. Built-in defaults
 2. YAML config file (config.yaml, or -c / CONFIG_PATH)
 3. Environment variables

CLI flags (-p port, -t engine) override all layers and survive reloads.

# Settings

	server:
	  host: 0.0.0.0
	  port: 5000
	  rate_limit: 5       # mutating requests/sec per client IP
	  rate_burst: 10
	database:
	  engine: sqlite      # or postgres
	  path: database.db   # sqlite file
	  url: ""             # postgres connection string
	admin:
	  token_digest: ...   # hex SHA-512 of the admin bearer token
	general:
	  timezone: UTC       # IANA zone, drives the color scheme

Environment equivalents: PORT, HOST, DATABASE_TYPE, DATABASE_URL,
DATABASE_PATH, ADMIN_TOKEN_SHA512, TIMEZONE, RATE_LIMIT, RATE_BURST.

# Live reload

Manager keeps the active *Config behind an atomic pointer:

	m, err := config.NewManager(opts)
	cfg := m.Active()      // snapshot, safe across goroutines
	_, err = m.Reload()    // re-read layers, swap atomically

The admin reload endpoint calls Reload; a failed reload keeps the previous
configuration active.
*/
package config
