// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/approval/cliparse"
	"github.com/danielhkuo/approval/models"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testMailConfig() cliparse.MailConfig {
	return cliparse.MailConfig{
		From:   "polls@example.com",
		To:     "me@example.com",
		Domain: "mg.example.com",
		Key:    "key-123",
	}
}

func TestMailgunSend(t *testing.T) {
	var got struct {
		path, user, pass string
		fields           map[string]string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.user, got.pass, _ = r.BasicAuth()
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		got.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got.fields[k] = v[0]
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mg := NewMailgun(testMailConfig()).WithBaseURL(srv.URL)
	msg := ResponseMessage("polls.example.com", "abc", "Lunch?", "Ann")
	if err := mg.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got.path != "/mg.example.com/messages" {
		t.Errorf("path = %q", got.path)
	}
	if got.user != "api" || got.pass != "key-123" {
		t.Errorf("basic auth = %q/%q", got.user, got.pass)
	}
	want := map[string]string{
		"from":    "polls@example.com",
		"to":      "me@example.com",
		"subject": `Response to "Lunch?"`,
		"o:dkim":  "yes",
		"text":    "\"Ann\" responded to \"Lunch?\".\n\npolls.example.com/abc",
	}
	for k, v := range want {
		if got.fields[k] != v {
			t.Errorf("field %s = %q, want %q", k, got.fields[k], v)
		}
	}
}

func TestMailgunSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden domain", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewMailgun(testMailConfig()).WithBaseURL(srv.URL).Send(context.Background(), Message{Subject: "x"})
	if err == nil || !strings.Contains(err.Error(), "forbidden domain") {
		t.Fatalf("Send() error = %v, want mailgun error body", err)
	}
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.err
}

type fakePolls map[string]models.Definition

func (f fakePolls) ReadDefinition(_ context.Context, id string) (models.Definition, error) {
	def, ok := f[id]
	if !ok {
		return models.Definition{}, errors.New("not found")
	}
	return def, nil
}

func TestNotifier_ResponseRecorded(t *testing.T) {
	sender := &fakeSender{}
	polls := fakePolls{"p1": {Title: "Lunch?"}}
	n := NewNotifier(sender, polls, "https://polls.example.com", quiet)

	n.ResponseRecorded("p1", "Ann")
	n.ResponseRecorded("missing", "Bo")
	n.Wait()

	if len(sender.msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.msgs))
	}
	msg := sender.msgs[0]
	if msg.Subject != `Response to "Lunch?"` {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Text[1] != "https://polls.example.com/p1" {
		t.Errorf("link = %q", msg.Text[1])
	}
}

func TestNotifier_SendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	n := NewNotifier(sender, fakePolls{"p1": {Title: "T"}}, "h", quiet)

	n.ResponseRecorded("p1", "Ann")
	n.Wait()

	if len(sender.msgs) != 1 {
		t.Fatalf("expected one attempt, got %d", len(sender.msgs))
	}
}

func TestNotifier_Disabled(t *testing.T) {
	n := NewNotifier(nil, fakePolls{}, "h", quiet)
	if n.Enabled() {
		t.Fatal("notifier without sender should be disabled")
	}
	n.ResponseRecorded("p1", "Ann")
	n.Wait()

	var nilNotifier *Notifier
	nilNotifier.ResponseRecorded("p1", "Ann")
	nilNotifier.Wait()
}
