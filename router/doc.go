// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes for Approval.

# Route Registration

	mux := router.NewRouter(st, creds, renderer, notifier)

# Endpoints

Health and assets:

	GET /health
	GET /styles.css
	GET /client.js

Organizer (basic auth):

	GET  /  - Poll creation form
	POST /  - Create poll, 303 to /{id}

Public:

	GET  /{id}           - Poll page with responses
	POST /{id}           - Record a response
	GET  /api/polls/{id} - Poll and responses as JSON (CORS)

Every route except health and assets is logged with a request ID, and poll
pages are never cached.
*/
package router
