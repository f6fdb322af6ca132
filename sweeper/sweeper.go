// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/approval/models"
	"github.com/danielhkuo/approval/store"
)

// Defaults: hourly sweeps, 30 day retention, three directories at a time.
const (
	DefaultMaxAge      = 30 * 24 * time.Hour
	DefaultInterval    = time.Hour
	DefaultConcurrency = 3
)

var ErrSweepInProgress = errors.New("sweep already in progress")

type Config struct {
	MaxAge      time.Duration
	Interval    time.Duration
	Concurrency int
	// OrphanGrace > 0 also removes poll directories that have no readable
	// definition and have not been modified for this long. Zero keeps them.
	OrphanGrace time.Duration
}

// Archiver receives an expired poll before it is deleted.
type Archiver interface {
	Write(view models.PollView, archivedAt time.Time) (string, error)
}

// Stats summarizes one sweep cycle.
type Stats struct {
	Scanned  int
	Kept     int
	Deleted  int
	Orphans  int
	Skipped  int
	Failed   int
	Trash    int
	Duration time.Duration
}

type Sweeper struct {
	store    *store.Store
	cfg      Config
	archiver Archiver
	logger   *slog.Logger
	now      func() time.Time

	running atomic.Bool
}

type Option func(*Sweeper)

func WithArchiver(a Archiver) Option {
	return func(s *Sweeper) { s.archiver = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

func New(st *store.Store, cfg Config, opts ...Option) *Sweeper {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}
	s := &Sweeper{
		store:  st,
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("retention sweeper started",
		"max_age", s.cfg.MaxAge.String(),
		"interval", s.cfg.Interval.String(),
		"concurrency", s.cfg.Concurrency,
	)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.sweepAndLog(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("retention sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	stats, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}
	s.logger.Info("sweep completed",
		"scanned", stats.Scanned,
		"kept", stats.Kept,
		"deleted", stats.Deleted,
		"orphans", stats.Orphans,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"trash", stats.Trash,
		"duration_ms", stats.Duration.Milliseconds(),
	)
}

// Sweep runs one cycle: every poll directory is checked independently and
// deleted when its createdAt is older than MaxAge. A directory whose
// definition cannot be read is skipped, never deleted, unless orphan
// reaping is enabled. Failures on one directory are logged and do not stop
// the others.
func (s *Sweeper) Sweep(ctx context.Context) (Stats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Stats{}, ErrSweepInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	var stats Stats

	trash, err := s.store.PurgeTrash(ctx)
	stats.Trash = trash
	if err != nil {
		s.logger.Error("failed to purge trash", "error", err)
	}

	entries, err := s.store.List(ctx)
	if err != nil {
		return stats, err
	}
	stats.Scanned = len(entries)

	var kept, deleted, orphans, skipped, failed atomic.Int64
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(entry store.Entry) {
			defer wg.Done()
			defer func() { <-sem }()

			switch s.check(ctx, entry) {
			case outcomeKept:
				kept.Add(1)
			case outcomeDeleted:
				deleted.Add(1)
			case outcomeOrphan:
				orphans.Add(1)
			case outcomeSkipped:
				skipped.Add(1)
			case outcomeFailed:
				failed.Add(1)
			}
		}(entry)
	}
	wg.Wait()

	stats.Kept = int(kept.Load())
	stats.Deleted = int(deleted.Load())
	stats.Orphans = int(orphans.Load())
	stats.Skipped = int(skipped.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = time.Since(start)
	return stats, ctx.Err()
}

type outcome int

const (
	outcomeKept outcome = iota
	outcomeDeleted
	outcomeOrphan
	outcomeSkipped
	outcomeFailed
)

func (s *Sweeper) check(ctx context.Context, entry store.Entry) outcome {
	now := s.now()

	def, err := s.store.ReadDefinition(ctx, entry.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) && s.cfg.OrphanGrace > 0 && now.Sub(entry.ModTime) > s.cfg.OrphanGrace {
			return s.reapOrphan(ctx, entry)
		}
		s.logger.Warn("skipping unreadable poll", "poll_id", entry.ID, "error", err)
		return outcomeSkipped
	}

	if now.Sub(def.CreatedAt) <= s.cfg.MaxAge {
		return outcomeKept
	}

	if s.archiver != nil {
		view, err := s.store.Read(ctx, entry.ID)
		if err != nil {
			s.logger.Error("failed to load expired poll for archive", "poll_id", entry.ID, "error", err)
			return outcomeFailed
		}
		path, err := s.archiver.Write(view, now)
		if err != nil {
			s.logger.Error("failed to archive expired poll", "poll_id", entry.ID, "error", err)
			return outcomeFailed
		}
		s.logger.Info("archived expired poll", "poll_id", entry.ID, "path", path, "responses", len(view.Responses))
	}

	if err := s.store.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return outcomeSkipped
		}
		s.logger.Error("failed to delete expired poll", "poll_id", entry.ID, "error", err)
		return outcomeFailed
	}
	s.logger.Info("deleted expired poll", "poll_id", entry.ID, "created_at", def.CreatedAt)
	return outcomeDeleted
}

func (s *Sweeper) reapOrphan(ctx context.Context, entry store.Entry) outcome {
	if err := s.store.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return outcomeSkipped
		}
		s.logger.Error("failed to delete orphaned poll directory", "poll_id", entry.ID, "error", err)
		return outcomeFailed
	}
	s.logger.Info("deleted orphaned poll directory", "poll_id", entry.ID, "modified_at", entry.ModTime)
	return outcomeOrphan
}
