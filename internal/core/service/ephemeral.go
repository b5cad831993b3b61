package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Single-use token policy: verification links live for a day and the raw
// value is stored; reset links live for half an hour and only the sha256 of
// the raw value is stored, so a database read never yields a usable link.
const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 30 * time.Minute

	ephemeralTokenBytes = 20
)

// newEphemeralToken returns a fresh high-entropy single-use token.
func newEphemeralToken() (string, error) {
	buf := make([]byte, ephemeralTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("ephemeral token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashResetToken derives the at-rest form of a reset token.
func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
