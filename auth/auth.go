// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// PollIDBytes is the number of random bytes behind every poll ID.
const PollIDBytes = 16

var (
	ErrEntropy            = errors.New("entropy source unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var pollIDPattern = regexp.MustCompile(fmt.Sprintf("^[a-f0-9]{%d}$", PollIDBytes*2))

// entropy is swapped out by tests that need a failing source
var entropy io.Reader = rand.Reader

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := io.ReadFull(entropy, b); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	return hex.EncodeToString(b), nil
}

// NewPollID returns 32 lowercase hex characters drawn from crypto/rand.
// Used IDs are not tracked; the 2^128 space makes collisions negligible.
func NewPollID() (string, error) {
	return GenerateID(PollIDBytes)
}

// ValidPollID reports whether id has the exact shape NewPollID produces.
func ValidPollID(id string) bool {
	return pollIDPattern.MatchString(id)
}

// Credentials is the single organizer account that gates poll creation.
// The password is kept only as a bcrypt hash.
type Credentials struct {
	username string
	hash     []byte
}

// NewCredentials hashes password once so requests never hold the plaintext
func NewCredentials(username, password string) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Credentials{username: username, hash: hash}, nil
}

// Check validates a basic-auth attempt
func (c *Credentials) Check(username, password string) error {
	// Always run the hash comparison so a wrong username costs the same time
	hashErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if username != c.username || hashErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
