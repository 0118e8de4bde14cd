// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package auth

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Obfuscate encodes a display string before it is written to storage.
// This is reversible encoding, not encryption: it only keeps display
// names out of plain-text table dumps.
func Obfuscate(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Reveal is the exact inverse of Obfuscate.
func Reveal(token string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("failed to reveal token: %w", err)
	}
	return string(b), nil
}

// Digest256 returns the lowercase hex SHA-256 digest of data.
func Digest256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Digest512 returns the lowercase hex SHA-512 digest of data.
func Digest512(data string) string {
	sum := sha512.Sum512([]byte(data))
	return hex.EncodeToString(sum[:])
}

// VerifyAdminToken compares a presented bearer token against the stored
// SHA-512 digest. The comparison is constant-time over the hex digests.
func VerifyAdminToken(token, storedDigest string) bool {
	presented := Digest512(token)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(storedDigest)) == 1
}
