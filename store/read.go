// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/models"
)

// Read loads a poll's definition and every well-formed response in log
// order. A missing response log is an empty poll. Malformed lines, such as a
// record truncated by a crash, are dropped.
func (s *Store) Read(ctx context.Context, id string) (models.PollView, error) {
	def, err := s.ReadDefinition(ctx, id)
	if err != nil {
		return models.PollView{}, err
	}

	responses, err := s.readResponses(id)
	if err != nil {
		return models.PollView{}, err
	}

	return models.PollView{
		ID:        id,
		CreatedAt: def.CreatedAt,
		Title:     def.Title,
		InputKind: def.InputKind,
		Choices:   def.Choices,
		Responses: responses,
	}, nil
}

// ReadDefinition loads only the definition record.
// A definition that is missing or does not decode reads as ErrNotFound.
func (s *Store) ReadDefinition(ctx context.Context, id string) (models.Definition, error) {
	if !auth.ValidPollID(id) {
		return models.Definition{}, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return models.Definition{}, err
	}

	data, err := os.ReadFile(s.definitionPath(id))
	if err != nil {
		if notExist(err) {
			return models.Definition{}, ErrNotFound
		}
		return models.Definition{}, ioError("read definition", err)
	}

	var def models.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return models.Definition{}, fmt.Errorf("%w: corrupt definition: %v", ErrNotFound, err)
	}
	if def.CreatedAt.IsZero() || def.Title == "" || len(def.Choices) == 0 {
		return models.Definition{}, fmt.Errorf("%w: incomplete definition", ErrNotFound)
	}
	return def, nil
}

func (s *Store) readResponses(id string) ([]models.Response, error) {
	responses := []models.Response{}

	f, err := os.Open(s.responsesPath(id))
	if err != nil {
		if notExist(err) {
			return responses, nil
		}
		return nil, ioError("open response log", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if resp, ok := parseResponse(line); ok {
			responses = append(responses, resp)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ioError("read response log", err)
		}
	}
	return responses, nil
}

// parseResponse decodes one log line. Anything that is not a JSON object
// carrying a timestamp is not a response.
func parseResponse(line []byte) (models.Response, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return models.Response{}, false
	}
	var resp models.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return models.Response{}, false
	}
	if resp.CreatedAt.IsZero() {
		return models.Response{}, false
	}
	if resp.Selections == nil {
		resp.Selections = []string{}
	}
	return resp, true
}
