// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielhkuo/approval/models"
)

// Validate rejects degenerate polls before anything touches the disk.
func Validate(req models.CreatePollRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDefinition)
	}
	if len(req.Choices) == 0 {
		return fmt.Errorf("%w: at least one choice is required", ErrInvalidDefinition)
	}
	if req.InputKind != "" && !req.InputKind.Valid() {
		return fmt.Errorf("%w: unknown input kind %q", ErrInvalidDefinition, req.InputKind)
	}
	return nil
}

// Create allocates an ID and writes the poll's definition.
//
// The definition is written to a temporary file and renamed into place, so
// the directory is visible without a definition only between Mkdir and
// Rename. Such a directory reads as ErrNotFound. On failure the directory is
// removed and no ID is returned.
func (s *Store) Create(ctx context.Context, req models.CreatePollRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := s.newID()
	if err != nil {
		return "", err
	}

	kind := req.InputKind
	if kind == "" {
		kind = models.InputText
	}
	def := models.Definition{
		CreatedAt: s.now().UTC(),
		Title:     req.Title,
		InputKind: kind,
		Choices:   append([]string(nil), req.Choices...),
	}

	dir := s.pollDir(id)
	// Mkdir, not MkdirAll: an existing directory means the allocator collided
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", ioError("create poll directory", err)
	}

	if err := writeDefinition(dir, def); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	return id, nil
}

func writeDefinition(dir string, def models.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+DefinitionFile+"-*")
	if err != nil {
		return ioError("create definition", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return ioError("write definition", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return ioError("sync definition", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return ioError("close definition", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, DefinitionFile)); err != nil {
		_ = os.Remove(tmpName)
		return ioError("publish definition", err)
	}
	return nil
}
