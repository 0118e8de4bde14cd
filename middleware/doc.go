// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: structured request/completion logging with per-request
    UUID request IDs (echoed as X-Request-ID)
  - CORS: cross-origin support with preflight handling
  - RateLimiter.WithRateLimit: per-client-IP token bucket throttling,
    rejecting over-limit requests with 429

# Helpers

  - JSONResponse: write a JSON body with status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode and close a JSON request body
  - GetClientIP: client address from X-Forwarded-For, X-Real-IP, or
    RemoteAddr (port stripped)
*/
package middleware
