// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}
}

func TestNewPollID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewPollID()
		if err != nil {
			t.Fatalf("NewPollID() error = %v", err)
		}
		if len(id) != 32 {
			t.Fatalf("NewPollID() length = %d, want 32", len(id))
		}
		if !ValidPollID(id) {
			t.Fatalf("NewPollID() produced %q which ValidPollID rejects", id)
		}
		if seen[id] {
			t.Fatalf("NewPollID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestNewPollID_EntropyFailure(t *testing.T) {
	old := entropy
	entropy = failingReader{}
	defer func() { entropy = old }()

	id, err := NewPollID()
	if !errors.Is(err, ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
	if id != "" {
		t.Errorf("expected empty ID on failure, got %q", id)
	}
}

func TestValidPollID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{strings.Repeat("a", 32), true},
		{"0123456789abcdef0123456789abcdef", true},
		{strings.Repeat("A", 32), false},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("a", 33), false},
		{"../" + strings.Repeat("a", 29), false},
		{"", false},
		{"0123456789abcdef0123456789abcdeg", false},
	}

	for _, tt := range tests {
		if got := ValidPollID(tt.id); got != tt.want {
			t.Errorf("ValidPollID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCredentials(t *testing.T) {
	creds, err := NewCredentials("approval", "secret")
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"correct", "approval", "secret", false},
		{"wrong password", "approval", "nope", true},
		{"wrong username", "admin", "secret", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := creds.Check(tt.username, tt.password)
			if tt.wantErr && !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Check() error = %v, want ErrInvalidCredentials", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Check() unexpected error = %v", err)
			}
		})
	}
}

func TestNewCredentials_RequiresBoth(t *testing.T) {
	if _, err := NewCredentials("", "secret"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := NewCredentials("approval", ""); err == nil {
		t.Error("expected error for empty password")
	}
}
