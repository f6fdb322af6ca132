// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/models"
)

// Append records one response as a single line of the poll's log.
//
// Appends to one poll are serialized by a per-poll mutex and each record is
// one write on an O_APPEND descriptor followed by fsync, so concurrent
// appends never interleave. Appends never create the poll directory: a poll
// deleted by the sweeper between the existence check and the open surfaces
// as ErrNotFound. If the caller gets an error the response may or may not
// have been recorded.
func (s *Store) Append(ctx context.Context, id string, resp models.Response) error {
	if !auth.ValidPollID(id) {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(s.definitionPath(id)); err != nil {
		if notExist(err) {
			return ErrNotFound
		}
		return ioError("stat definition", err)
	}

	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = s.now().UTC()
	}
	if resp.Selections == nil {
		resp.Selections = []string{}
	}
	line, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	line = append(line, '\n')

	lock := s.appendLock(id)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.OpenFile(s.responsesPath(id), os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		if notExist(err) {
			return ErrNotFound
		}
		return ioError("open response log", err)
	}
	defer f.Close()

	torn, err := endsMidLine(f)
	if err != nil {
		return ioError("inspect response log", err)
	}
	if torn {
		// A crash left a partial record; start ours on a fresh line
		line = append([]byte{'\n'}, line...)
	}

	if _, err := f.Write(line); err != nil {
		return ioError("append response", err)
	}
	if err := f.Sync(); err != nil {
		return ioError("sync response log", err)
	}
	return f.Close()
}

// endsMidLine reports whether the file's last byte is not a newline.
func endsMidLine(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}
