// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides poll ID allocation and the organizer credential check.

# Poll IDs

Poll IDs are 16 random bytes from crypto/rand, hex encoded:

	id, err := auth.NewPollID() // 32 lowercase hex characters

No uniqueness check is made against existing polls. The 2^128 space makes a
collision negligible, so a deleted ID is never reissued in practice. Do not
shorten the ID or swap in a weaker generator.

A failing random source surfaces as ErrEntropy:

	if errors.Is(err, auth.ErrEntropy) { ... }

ValidPollID checks the shape of an ID taken from a URL before it is used
to build a filesystem path.

# Organizer Credentials

Poll creation is gated by one shared username/password pair. The password is
hashed with bcrypt at startup:

	creds, err := auth.NewCredentials(cfg.Username, cfg.Password)
	err = creds.Check(user, pass) // ErrInvalidCredentials on mismatch
*/
package auth
