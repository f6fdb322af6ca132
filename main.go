// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/approval/archive"
	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/cliparse"
	"github.com/danielhkuo/approval/notify"
	"github.com/danielhkuo/approval/router"
	"github.com/danielhkuo/approval/store"
	"github.com/danielhkuo/approval/sweeper"
	"github.com/danielhkuo/approval/views"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the poll store
	st, err := store.New(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open data directory", "error", err, "directory", cfg.DataDir)
		os.Exit(1)
	}
	slog.Info("Data directory ready", "directory", st.Root())

	// Retention sweeper, archiving first when configured
	var sweepOpts []sweeper.Option
	if cfg.ArchiveDir != "" {
		arch, err := archive.New(cfg.ArchiveDir)
		if err != nil {
			slog.Error("failed to open archive directory", "error", err, "directory", cfg.ArchiveDir)
			os.Exit(1)
		}
		sweepOpts = append(sweepOpts, sweeper.WithArchiver(arch))
		slog.Info("Archiving expired polls", "directory", cfg.ArchiveDir)
	}
	sw := sweeper.New(st, sweeper.Config{
		MaxAge:      cfg.RetentionAge,
		Interval:    cfg.SweepInterval,
		Concurrency: cfg.SweepConcurrency,
		OrphanGrace: cfg.OrphanGrace,
	}, sweepOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sw.Run(ctx)
	}()

	creds, err := auth.NewCredentials(cfg.Username, cfg.Password)
	if err != nil {
		slog.Error("failed to set up credentials", "error", err)
		os.Exit(1)
	}

	renderer, err := views.New(cfg.RetentionAge)
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Email notifications are optional
	var sender notify.Sender
	if cfg.Mail.Enabled() {
		sender = notify.NewMailgun(cfg.Mail)
		slog.Info("Email notifications enabled", "to", cfg.Mail.To)
	}
	notifier := notify.NewNotifier(sender, st, cfg.Hostname, slog.Default())

	// Create router
	mux := router.NewRouter(st, creds, renderer, notifier)

	// Create server
	server := http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-stop
		slog.Info("Shutting down", "signal", sig.String())

		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		cancel()
	} else {
		slog.Info("Server closed")
	}

	<-sweepDone
	notifier.Wait()
}
