// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify emails the organizer when a poll receives a response.

Notifications are best effort. ResponseRecorded returns immediately; the
poll title is looked up and the message sent in a background goroutine, and
any failure is only logged. The voter's request has already been answered.

	n := notify.NewNotifier(notify.NewMailgun(cfg.Mail), st, cfg.Hostname, nil)
	n.ResponseRecorded(id, responder)
	...
	n.Wait() // on shutdown

Pass a nil Sender to disable notification.
*/
package notify
