// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/approval/middleware"
	"github.com/danielhkuo/approval/models"
	"github.com/danielhkuo/approval/store"
	"github.com/danielhkuo/approval/views"
)

// maxFormBytes caps the size of a posted form
const maxFormBytes = 1 << 20

type PollHandler struct {
	store *store.Store
	views *views.Renderer
}

func NewPollHandler(st *store.Store, renderer *views.Renderer) *PollHandler {
	return &PollHandler{store: st, views: renderer}
}

// Index handles GET /
func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Index(w); err != nil {
		middleware.Logger(r).Error("failed to render index", "error", err)
		middleware.TextError(w, http.StatusInternalServerError, "")
	}
}

// CreatePoll handles POST /
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	logger := middleware.Logger(r)

	if err := parseForm(w, r); err != nil {
		middleware.TextError(w, http.StatusBadRequest, "invalid form")
		return
	}

	kind, ok := inputKind(r.PostForm.Get(models.FieldInputType))
	if !ok {
		middleware.TextError(w, http.StatusBadRequest, "unknown input type")
		return
	}

	req := models.CreatePollRequest{
		Title:     strings.TrimSpace(r.PostForm.Get(models.FieldTitle)),
		InputKind: kind,
		Choices:   nonBlank(r.PostForm[models.FieldChoices]),
	}

	id, err := h.store.Create(r.Context(), req)
	if errors.Is(err, store.ErrInvalidDefinition) {
		middleware.TextError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Error("failed to create poll", "error", err)
		middleware.TextError(w, http.StatusInternalServerError, "")
		return
	}

	logger.Info("poll created", "poll_id", id, "choices", len(req.Choices))

	http.Redirect(w, r, "/"+id, http.StatusSeeOther)
}

// parseForm accepts url-encoded and multipart bodies
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	err := r.ParseMultipartForm(maxFormBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// inputKind maps the posted HTML input type to a poll input kind
func inputKind(v string) (models.InputKind, bool) {
	switch v {
	case "", models.HTMLInputText:
		return models.InputText, true
	case models.HTMLInputDateTime, string(models.InputDateTime):
		return models.InputDateTime, true
	}
	return "", false
}

// nonBlank drops the empty inputs a form posts for unused rows
func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
