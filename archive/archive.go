// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/danielhkuo/approval/models"
)

// Record is the archived form of an expired poll.
type Record struct {
	ArchivedAt time.Time       `json:"archivedAt"`
	Poll       models.PollView `json:"poll"`
}

// Archiver writes expired polls to <dir>/<id>.json.zst before deletion.
type Archiver struct {
	dir string
}

func New(dir string) (*Archiver, error) {
	if dir == "" {
		return nil, errors.New("archive directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Archiver{dir: dir}, nil
}

// Path returns where the archive for id is written.
func (a *Archiver) Path(id string) string {
	return filepath.Join(a.dir, id+".json.zst")
}

// Write stores view compressed. The file appears under its final name only
// once it is complete.
func (a *Archiver) Write(view models.PollView, archivedAt time.Time) (string, error) {
	dst := a.Path(view.ID)

	tmp, err := os.CreateTemp(a.dir, "."+view.ID+"-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fail(err)
	}
	if err := json.NewEncoder(enc).Encode(Record{ArchivedAt: archivedAt.UTC(), Poll: view}); err != nil {
		_ = enc.Close()
		return fail(err)
	}
	if err := enc.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return dst, nil
}

// Read decodes an archive written by Write.
func Read(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return Record{}, err
	}
	defer dec.Close()

	var rec Record
	if err := json.NewDecoder(dec).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("archive %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}
