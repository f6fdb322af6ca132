// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/danielhkuo/approval/auth"
)

// File names inside a poll directory
const (
	DefinitionFile = "definition"
	ResponsesFile  = "responses"
)

const trashPrefix = ".trash-"

var (
	ErrNotFound          = errors.New("poll not found")
	ErrInvalidDefinition = errors.New("invalid poll definition")
	ErrIO                = errors.New("poll storage failure")
)

// ioError marks err as an ErrIO while keeping the underlying cause matchable.
func ioError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}

// Store keeps every poll in its own directory under root.
//
// The only in-process shared state is the append lock table. Reads take no
// locks and tolerate concurrent appends and deletes.
type Store struct {
	root  string
	now   func() time.Time
	newID func() (string, error)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Store)

// WithClock overrides the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDSource overrides the poll ID allocator.
func WithIDSource(newID func() (string, error)) Option {
	return func(s *Store) { s.newID = newID }
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ioError("create data directory", err)
	}
	s := &Store{
		root:  dir,
		now:   time.Now,
		newID: auth.NewPollID,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the data directory.
func (s *Store) Root() string { return s.root }

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) pollDir(id string) string {
	return filepath.Join(s.root, id)
}

func (s *Store) definitionPath(id string) string {
	return filepath.Join(s.root, id, DefinitionFile)
}

func (s *Store) responsesPath(id string) string {
	return filepath.Join(s.root, id, ResponsesFile)
}

// appendLock returns the mutex serializing appends to one poll's log.
// Entries are created lazily and never removed; the table grows with the
// number of polls that ever received a response during this process.
func (s *Store) appendLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
