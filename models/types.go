// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// InputKind decides how a poll's choices are interpreted and rendered.
type InputKind string

// Input kind constants
const (
	InputText     InputKind = "text"
	InputDateTime InputKind = "datetime"
)

// Valid reports whether k is a known input kind.
func (k InputKind) Valid() bool {
	return k == InputText || k == InputDateTime
}

// Form field names shared by the HTML forms and the handlers
const (
	FieldTitle     = "title"
	FieldInputType = "inputType"
	FieldChoices   = "choices[]"
	FieldResponder = "responder"
)

// HTML input types posted by the creation form
const (
	HTMLInputText     = "text"
	HTMLInputDateTime = "datetime-local"
)

// DateTimeLayout is the value format of a datetime-local input.
const DateTimeLayout = "2006-01-02T15:04"

// Domain types

// Definition is the immutable record written once when a poll is created.
type Definition struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	InputKind InputKind `json:"inputKind"`
	Choices   []string  `json:"choices"`
}

// Response is one line of a poll's response log.
type Response struct {
	CreatedAt  time.Time `json:"createdAt"`
	Responder  string    `json:"responder"`
	Selections []string  `json:"selections"`
}

// PollView combines a definition with its responses in log order.
type PollView struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Title     string     `json:"title"`
	InputKind InputKind  `json:"inputKind"`
	Choices   []string   `json:"choices"`
	Responses []Response `json:"responses"`
}

// Request types

type CreatePollRequest struct {
	Title     string
	InputKind InputKind
	Choices   []string
}

type SubmitResponseRequest struct {
	Responder  string
	Selections []string
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
