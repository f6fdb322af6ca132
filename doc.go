// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Approval server.

Approval runs approval-voting polls: an organizer creates a poll with a list
of choices, shares the link, and each respondent ticks every choice that
works for them. Polls live as plain files under the data directory and are
deleted once they are older than the retention age.

# Starting the Server

	go run . -p 8080 -d ./approval-data -u organizer -password secret

Or through the environment (a .env file is read when present):

	PORT=8080 DIRECTORY=./approval-data USERNAME=organizer PASSWORD=secret go run .

# Configuration

  - PORT (-p): listen port (default 8080)
  - DIRECTORY (-d): data directory (default approval-data)
  - USERNAME (-u), PASSWORD (-password): organizer credentials
  - HOSTNAME (-host): public origin used in notification links
  - RETENTION (-retention): poll lifetime (default 720h)
  - SWEEP_INTERVAL, SWEEP_CONCURRENCY, ORPHAN_GRACE: sweeper tuning
  - ARCHIVE_DIRECTORY (-archive): keep compressed copies of expired polls
  - CONFIG_FILE (-c): YAML file with the same settings
  - MAILGUN_FROM, EMAIL_TO, MAILGUN_DOMAIN, MAILGUN_KEY: response emails

# Architecture

  - store: file-backed polls and response logs
  - sweeper: periodic retention sweep
  - archive: zstd archives of expired polls
  - handlers, router, middleware: HTTP surface
  - views: HTML templates and static assets
  - notify: Mailgun notifications
  - auth: poll IDs and organizer credentials
  - cliparse: configuration parsing

SIGINT, SIGTERM and SIGQUIT stop the sweeper and drain in-flight requests
before exit.
*/
package main
