// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/handlers"
	"github.com/danielhkuo/approval/middleware"
	"github.com/danielhkuo/approval/notify"
	"github.com/danielhkuo/approval/store"
	"github.com/danielhkuo/approval/views"
)

// Realm is the basic auth realm shown to the organizer
const Realm = "Approval"

// NewRouter registers every route. notifier may be nil.
func NewRouter(st *store.Store, creds *auth.Credentials, renderer *views.Renderer, notifier *notify.Notifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(st, renderer)
	votingHandler := handlers.NewVotingHandler(st, renderer, notifier)
	apiHandler := handlers.NewAPIHandler(st)

	organizer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.BasicAuth(creds, Realm, middleware.NoCache(h)))
	}
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.NoCache(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Static assets
	static := http.FileServerFS(views.Static())
	mux.Handle("GET /styles.css", static)
	mux.Handle("GET /client.js", static)

	// Poll creation (organizer)
	mux.HandleFunc("GET /{$}", organizer(pollHandler.Index))
	mux.HandleFunc("POST /{$}", organizer(pollHandler.CreatePoll))

	// Responding (public, the ID is the capability)
	mux.HandleFunc("GET /{id}", public(votingHandler.GetPoll))
	mux.HandleFunc("POST /{id}", public(votingHandler.SubmitResponse))

	// JSON API
	api := public(middleware.CORS(apiHandler.GetPoll))
	mux.HandleFunc("GET /api/polls/{id}", api)
	mux.HandleFunc("OPTIONS /api/polls/{id}", api)

	return mux
}
