// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package main provides the entry point for the Songvote API server.

Songvote is a community song-voting service: members sign in through an
identity proxy, submit songs to a shared catalog, and cast one vote per
song. Storage runs on either PostgreSQL or an embedded SQLite file,
selected at startup.

# Starting the Server

	go run . -c config.yaml

Or with environment variables (a local .env file is read if present):

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

# Configuration

Settings layer as defaults < config file < environment < CLI flags:

  - CONFIG_PATH (-c): YAML config file (default: config.yaml)
  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): Storage engine, sqlite or postgres
  - DATABASE_URL: PostgreSQL connection string
  - DATABASE_PATH: SQLite database file (default: database.db)
  - ADMIN_TOKEN_SHA512: hex SHA-512 digest of the admin token
  - TIMEZONE: IANA zone driving the color scheme endpoint

POST /api/v1/admin/reload_config re-reads all layers at runtime and
swaps the active configuration atomically.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, songs, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response types
  - store: Engine-agnostic persistence over PostgreSQL and SQLite
  - auth: Reversible obfuscation and admin token digests
  - config: Layered configuration with atomic live reload

See package documentation for each component.
*/
package main
