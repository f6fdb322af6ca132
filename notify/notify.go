// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/approval/cliparse"
	"github.com/danielhkuo/approval/models"
)

const DefaultMailgunURL = "https://api.mailgun.net/v3"

// Message is a plain-text email; Text paragraphs are joined by blank lines.
type Message struct {
	Subject string
	Text    []string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailgun sends messages through the Mailgun HTTP API.
type Mailgun struct {
	cfg     cliparse.MailConfig
	baseURL string
	client  *http.Client
}

func NewMailgun(cfg cliparse.MailConfig) *Mailgun {
	return &Mailgun{
		cfg:     cfg,
		baseURL: DefaultMailgunURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at another API root (used by tests)
func (m *Mailgun) WithBaseURL(u string) *Mailgun {
	m.baseURL = strings.TrimRight(u, "/")
	return m
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := [][2]string{
		{"from", m.cfg.From},
		{"to", m.cfg.To},
		{"subject", msg.Subject},
		{"o:dkim", "yes"},
		{"text", strings.Join(msg.Text, "\n\n")},
	}
	for _, f := range fields {
		if err := form.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	url := m.baseURL + "/" + m.cfg.Domain + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth("api", m.cfg.Key)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailgun request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailgun returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// DefinitionReader is the part of the store the notifier needs
type DefinitionReader interface {
	ReadDefinition(ctx context.Context, id string) (models.Definition, error)
}

// Notifier tells the organizer about new responses. Every notification
// runs in the background; failures are logged and never reach the voter.
type Notifier struct {
	sender   Sender
	polls    DefinitionReader
	hostname string
	logger   *slog.Logger
	timeout  time.Duration

	wg sync.WaitGroup
}

// NewNotifier returns a Notifier. A nil sender disables notification.
func NewNotifier(sender Sender, polls DefinitionReader, hostname string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sender:   sender,
		polls:    polls,
		hostname: hostname,
		logger:   logger,
		timeout:  time.Minute,
	}
}

// Enabled reports whether notifications will be sent
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil
}

// ResponseMessage builds the email for a response to the titled poll
func ResponseMessage(hostname, id, title, responder string) Message {
	return Message{
		Subject: `Response to "` + title + `"`,
		Text: []string{
			`"` + responder + `" responded to "` + title + `".`,
			hostname + "/" + id,
		},
	}
}

// ResponseRecorded sends a notification in the background and returns at once.
func (n *Notifier) ResponseRecorded(id, responder string) {
	if !n.Enabled() {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		def, err := n.polls.ReadDefinition(ctx, id)
		if err != nil {
			n.logger.Error("notification skipped: failed to read poll", "poll_id", id, "error", err)
			return
		}
		if err := n.sender.Send(ctx, ResponseMessage(n.hostname, id, def.Title, responder)); err != nil {
			n.logger.Error("failed to send notification", "poll_id", id, "error", err)
			return
		}
		n.logger.Info("notification sent", "poll_id", id)
	}()
}

// Wait blocks until in-flight notifications finish
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}
