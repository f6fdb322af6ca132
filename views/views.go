// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"slices"
	"time"

	"github.com/yuin/goldmark"

	"github.com/danielhkuo/approval/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and browser script, rooted at "/".
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// DisplayTimeLayout is how datetime choices are shown to voters
const DisplayTimeLayout = "Mon, Jan 2, 2006 3:04 PM"

type Renderer struct {
	pages         map[string]*template.Template
	md            goldmark.Markdown
	retentionDays int
}

// New parses every page. retention is shown in the page footer.
func New(retention time.Duration) (*Renderer, error) {
	r := &Renderer{
		pages:         make(map[string]*template.Template),
		md:            goldmark.New(),
		retentionDays: int(retention / (24 * time.Hour)),
	}
	for _, page := range []string{"index.html", "vote.html", "voted.html"} {
		t, err := template.ParseFS(templateFS, "templates/_head.html", "templates/_footer.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

type pageData struct {
	Title         string
	RetentionDays int
}

type choiceData struct {
	Value string
	HTML  template.HTML
	Count int
}

type responseRow struct {
	Responder string
	CreatedAt time.Time
	Marks     []bool
}

type voteData struct {
	pageData
	ID        string
	Choices   []choiceData
	Responses []responseRow
}

type votedData struct {
	pageData
	ID string
}

func (r *Renderer) render(w io.Writer, page string, data any) error {
	// Render to a buffer so a template error never sends a half page
	var buf bytes.Buffer
	if err := r.pages[page].ExecuteTemplate(&buf, page, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Index renders the poll creation form
func (r *Renderer) Index(w io.Writer) error {
	return r.render(w, "index.html", pageData{RetentionDays: r.retentionDays})
}

// Vote renders a poll with its responses and the response form
func (r *Renderer) Vote(w io.Writer, view models.PollView) error {
	data := voteData{
		pageData: pageData{Title: view.Title, RetentionDays: r.retentionDays},
		ID:       view.ID,
		Choices:  make([]choiceData, len(view.Choices)),
	}
	for i, choice := range view.Choices {
		html, err := r.Choice(view.InputKind, choice)
		if err != nil {
			return err
		}
		data.Choices[i] = choiceData{Value: choice, HTML: html}
	}
	for _, resp := range view.Responses {
		row := responseRow{
			Responder: resp.Responder,
			CreatedAt: resp.CreatedAt,
			Marks:     make([]bool, len(view.Choices)),
		}
		for i, choice := range view.Choices {
			if slices.Contains(resp.Selections, choice) {
				row.Marks[i] = true
				data.Choices[i].Count++
			}
		}
		data.Responses = append(data.Responses, row)
	}
	return r.render(w, "vote.html", data)
}

// Voted renders the confirmation shown after a response is recorded
func (r *Renderer) Voted(w io.Writer, id string) error {
	return r.render(w, "voted.html", votedData{
		pageData: pageData{RetentionDays: r.retentionDays},
		ID:       id,
	})
}

// Choice renders one choice: markdown for text polls, a readable date for
// datetime polls. Unparseable dates are shown as entered.
func (r *Renderer) Choice(kind models.InputKind, choice string) (template.HTML, error) {
	if kind == models.InputDateTime {
		if t, err := time.Parse(models.DateTimeLayout, choice); err == nil {
			return template.HTML(template.HTMLEscapeString(t.Format(DisplayTimeLayout))), nil
		}
		return template.HTML(template.HTMLEscapeString(choice)), nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(choice), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	// goldmark drops raw HTML by default, so the output is safe to embed
	return template.HTML(buf.String()), nil
}
