// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for Approval.

# Handler Types

Each handler is a struct holding its dependencies:

  - PollHandler: creation form and poll creation (organizer only)
  - VotingHandler: poll page and response submission (public)
  - APIHandler: read-only JSON view of a poll

	pollHandler := handlers.NewPollHandler(st, renderer)
	votingHandler := handlers.NewVotingHandler(st, renderer, notifier)

# Creating a Poll

POST / takes a form with title, inputType (text or datetime-local) and
repeated choices[] fields. Blank choices are dropped. A poll with no title
or no choices is rejected with 400; otherwise the response is a 303 to
/{id}.

# Responding

POST /{id} takes responder and any number of choices[] fields. Blank
selections are dropped and the rest are stored as posted. The organizer is notified in the background when a
Notifier is configured.

# Errors

Malformed, never-issued and expired IDs all answer 404. Storage failures
are logged with the request ID and answer 500.
*/
package handlers
