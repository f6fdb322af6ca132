// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielhkuo/approval/auth"
)

// Entry is one poll directory found by List.
type Entry struct {
	ID      string
	ModTime time.Time
}

// List returns every directory under the root whose name is a poll ID.
// Directories whose definition is missing or corrupt are included.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, ioError("list data directory", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.IsDir() || !auth.ValidPollID(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed since ReadDir
			continue
		}
		entries = append(entries, Entry{ID: de.Name(), ModTime: info.ModTime()})
	}
	return entries, nil
}

// Delete removes a poll and all of its responses.
//
// The directory is first renamed out of the ID namespace, which is atomic, so
// readers and appenders see either the whole poll or ErrNotFound. An append
// that opened the log before the rename writes into the doomed directory and
// is lost with it.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !auth.ValidPollID(id) {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	trash := filepath.Join(s.root, fmt.Sprintf("%s%s-%d", trashPrefix, id, s.now().UnixNano()))
	if err := os.Rename(s.pollDir(id), trash); err != nil {
		if notExist(err) {
			return ErrNotFound
		}
		return ioError("unlink poll directory", err)
	}
	if err := os.RemoveAll(trash); err != nil {
		return ioError("remove poll directory", err)
	}
	return nil
}

// PurgeTrash removes directories left behind by a Delete that was
// interrupted after its rename. It returns how many were removed.
func (s *Store) PurgeTrash(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, ioError("list data directory", err)
	}

	removed := 0
	for _, de := range dirEntries {
		if !strings.HasPrefix(de.Name(), trashPrefix) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, de.Name())); err != nil {
			return removed, ioError("remove trash", err)
		}
		removed++
	}
	return removed, nil
}
