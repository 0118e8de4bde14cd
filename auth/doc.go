// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package auth provides the encoding and digest utilities used by the store
and the admin endpoint.

# Obfuscation

Display strings (usernames, song names) are obfuscated before storage and
revealed on the way out:

	token := auth.Obfuscate("alice")
	name, err := auth.Reveal(token)

Obfuscation is plain base64: deterministic and reversible. It is a cosmetic
measure against casual table browsing, not a security control.

# Digests

One-way hex digests for credential comparison:

	auth.Digest256(data)  // SHA-256, 64 hex chars
	auth.Digest512(data)  // SHA-512, 128 hex chars

The admin reload endpoint compares a presented bearer token against the
configured SHA-512 digest:

	if auth.VerifyAdminToken(token, cfg.Admin.TokenDigest) { ... }

VerifyAdminToken uses a constant-time comparison over the hex strings.
*/
package auth
