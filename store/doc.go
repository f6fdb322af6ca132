// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store keeps polls and their responses as plain files.

# Layout

Each poll is a directory named by its ID under the data directory:

	<root>/<id>/definition   one JSON object: createdAt, title, inputKind, choices
	<root>/<id>/responses    newline-delimited JSON: createdAt, responder, selections

The definition is written once and never rewritten. The response log is
append-only.

# Operations

	s, err := store.New(cfg.DataDir)

	id, err := s.Create(ctx, models.CreatePollRequest{...})
	err = s.Append(ctx, id, models.Response{Responder: "Ann", Selections: []string{"Pizza"}})
	view, err := s.Read(ctx, id)

The sweeper additionally uses List, ReadDefinition, Delete and PurgeTrash.

# Errors

  - ErrNotFound: malformed ID, missing directory, or missing/corrupt definition
  - ErrInvalidDefinition: empty title, no choices, or unknown input kind
  - ErrIO: any filesystem failure; the underlying *fs.PathError is also matchable
  - auth.ErrEntropy: the random source failed while allocating an ID

Nothing is retried internally.

# Consistency

Create publishes the definition with a rename, so a partial definition is
never visible. Append holds a per-poll mutex around a single O_APPEND write,
so records never interleave. Appends to different polls do not contend.
Read takes no locks: it may or may not see a concurrent append, and it drops
any line that is not a complete record. Delete renames the directory out of
the way before removing it.

A poll crossing the retention age while a vote is in flight can lose that
vote, or the vote can fail with ErrNotFound. This is accepted.
*/
package store
