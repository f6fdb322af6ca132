// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/approval/models"
	"github.com/danielhkuo/approval/testutil"
)

// TestConcurrentResponses verifies that simultaneous submissions to one poll
// are all recorded exactly once
func TestConcurrentResponses(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewVotingHandler(st, testutil.NewTestRenderer(t), nil)

	id := testutil.CreateTestPoll(t, st, "Lunch", models.InputText, "Pizza", "Tacos", "Sushi")
	choices := []string{"Pizza", "Tacos", "Sushi"}

	numVoters := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			form := url.Values{
				"responder": {fmt.Sprintf("voter-%02d", voterIdx)},
				"choices[]": {choices[voterIdx%3]},
			}
			w := servePath("POST /{id}", handler.SubmitResponse, testutil.MakeFormRequest("POST", "/"+id, form, nil))
			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	view, err := st.Read(context.Background(), id)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(view.Responses) != numVoters {
		t.Fatalf("Expected %d responses, got %d", numVoters, len(view.Responses))
	}

	seen := map[string]bool{}
	for _, resp := range view.Responses {
		if seen[resp.Responder] {
			t.Errorf("Duplicate response from %s", resp.Responder)
		}
		seen[resp.Responder] = true
		if len(resp.Selections) != 1 {
			t.Errorf("Response from %s has %d selections", resp.Responder, len(resp.Selections))
		}
	}
}

// TestConcurrentPollCreation verifies that simultaneous creations get distinct IDs
func TestConcurrentPollCreation(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewPollHandler(st, testutil.NewTestRenderer(t))

	numPolls := 10
	locations := make([]string, numPolls)
	var wg sync.WaitGroup

	for i := 0; i < numPolls; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			form := url.Values{
				"title":     {fmt.Sprintf("Poll %d", idx)},
				"choices[]": {"Yes", "No"},
			}
			w := servePath("POST /{$}", handler.CreatePoll, testutil.MakeFormRequest("POST", "/", form, nil))
			if w.Code == http.StatusSeeOther {
				locations[idx] = w.Header().Get("Location")
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, loc := range locations {
		if loc == "" {
			t.Errorf("Poll %d was not created", i)
			continue
		}
		if seen[loc] {
			t.Errorf("Duplicate poll location %s", loc)
		}
		seen[loc] = true
	}

	entries, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != numPolls {
		t.Errorf("Expected %d polls on disk, got %d", numPolls, len(entries))
	}
}
