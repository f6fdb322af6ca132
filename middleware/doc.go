// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /{id}", middleware.WithLogging(handler))

Every request gets a UUID, returned in the X-Request-ID header and attached
to a request-scoped logger:

	middleware.Logger(r).Error("failed to read poll", "error", err)

Logs request start (method, path, remote) and completion (status, duration_ms).

# Organizer Gate

	middleware.BasicAuth(creds, "Approval", handler)

Answers 401 with a Basic challenge unless the request carries the
organizer credentials.

# Caching

NoCache sets Cache-Control, Pragma and Expires so poll pages are always
fetched fresh.

# Error and JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, view)
	middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	middleware.TextError(w, http.StatusBadRequest, "title is required")

CORS opens the read-only JSON API to other origins.

# Client IP Extraction

	ip := middleware.GetClientIP(r) // X-Forwarded-For, X-Real-IP, RemoteAddr
*/
package middleware
