// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the poll records, request types and JSON views.

# Domain Types

  - Definition: createdAt, title, inputKind, choices (written once per poll)
  - Response: createdAt, responder, selections (one line of the response log)
  - PollView: a definition plus its responses in log order

# Request Types

Parsed from HTML form posts:

  - CreatePollRequest: title, input kind, choices
  - SubmitResponseRequest: responder, selections

# Constants

Input kinds:

	InputText     = "text"
	InputDateTime = "datetime"

Form fields:

	FieldTitle     = "title"
	FieldInputType = "inputType"
	FieldChoices   = "choices[]"
	FieldResponder = "responder"
*/
package models
