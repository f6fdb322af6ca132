// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/middleware"
	"github.com/danielhkuo/approval/store"
)

type APIHandler struct {
	store *store.Store
}

func NewAPIHandler(st *store.Store) *APIHandler {
	return &APIHandler{store: st}
}

// GetPoll handles GET /api/polls/{id}
// Returns the definition with every response in log order.
func (h *APIHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !auth.ValidPollID(id) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	view, err := h.store.Read(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		middleware.Logger(r).Error("failed to read poll", "poll_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}
