// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/middleware"
	"github.com/danielhkuo/approval/models"
	"github.com/danielhkuo/approval/notify"
	"github.com/danielhkuo/approval/store"
	"github.com/danielhkuo/approval/views"
)

type VotingHandler struct {
	store    *store.Store
	views    *views.Renderer
	notifier *notify.Notifier
}

// NewVotingHandler returns a VotingHandler. notifier may be nil.
func NewVotingHandler(st *store.Store, renderer *views.Renderer, notifier *notify.Notifier) *VotingHandler {
	return &VotingHandler{store: st, views: renderer, notifier: notifier}
}

// GetPoll handles GET /{id}
func (h *VotingHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !auth.ValidPollID(id) {
		middleware.TextError(w, http.StatusNotFound, "")
		return
	}

	view, err := h.store.Read(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.TextError(w, http.StatusNotFound, "")
		return
	}
	if err != nil {
		middleware.Logger(r).Error("failed to read poll", "poll_id", id, "error", err)
		middleware.TextError(w, http.StatusInternalServerError, "")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Vote(w, view); err != nil {
		middleware.Logger(r).Error("failed to render poll", "poll_id", id, "error", err)
		middleware.TextError(w, http.StatusInternalServerError, "")
	}
}

// SubmitResponse handles POST /{id}
// Blank selections are dropped; the rest are not checked against the choices.
func (h *VotingHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	logger := middleware.Logger(r)

	id := r.PathValue("id")
	if !auth.ValidPollID(id) {
		middleware.TextError(w, http.StatusNotFound, "")
		return
	}

	if err := parseForm(w, r); err != nil {
		middleware.TextError(w, http.StatusBadRequest, "invalid form")
		return
	}

	req := models.SubmitResponseRequest{
		Responder:  r.PostForm.Get(models.FieldResponder),
		Selections: nonBlank(r.PostForm[models.FieldChoices]),
	}

	err := h.store.Append(r.Context(), id, models.Response{
		Responder:  req.Responder,
		Selections: req.Selections,
	})
	if errors.Is(err, store.ErrNotFound) {
		middleware.TextError(w, http.StatusNotFound, "")
		return
	}
	if err != nil {
		logger.Error("failed to record response", "poll_id", id, "error", err)
		middleware.TextError(w, http.StatusInternalServerError, "")
		return
	}

	logger.Info("response recorded", "poll_id", id, "selections", len(req.Selections))

	h.notifier.ResponseRecorded(id, req.Responder)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Voted(w, id); err != nil {
		logger.Error("failed to render confirmation", "poll_id", id, "error", err)
		middleware.TextError(w, http.StatusInternalServerError, "")
	}
}
