// Package appstate persists the small process-wide state document: the
// incremental-sync watermark, the cached has-existing-data flag, and the
// review-prompt timestamp. It is a single JSON file with mutex-guarded
// read-modify-write updates; the sync coordinator additionally serializes
// its own updates under the single-flight sync lock.
package appstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is the persisted document.
type State struct {
	// LastFetchedTimestamp is the watermark of the last successful catalog
	// fetch. Monotonically non-decreasing. Defaults to the Unix epoch, not
	// a distant-past sentinel: the catalog service validates the value as a
	// real past instant and rejects out-of-range timestamps.
	LastFetchedTimestamp time.Time `json:"last_fetched_timestamp"`

	// HasExistingData records whether the store ever received catalog
	// data. Nil until computed once on first startup, then cached here.
	HasExistingData *bool `json:"has_existing_data"`

	// LastReviewPromptTimestamp belongs to the review-prompt heuristic,
	// which lives outside this package; it is only stored here.
	LastReviewPromptTimestamp time.Time `json:"last_review_prompt_timestamp"`
}

// defaultState returns the document used before the first write.
func defaultState() State {
	return State{
		LastFetchedTimestamp: time.Unix(0, 0).UTC(),
	}
}

// FileStore persists State as a JSON document at a fixed path.
type FileStore struct {
	path string

	mu    sync.Mutex
	state State
}

// NewFileStore loads the document at path, falling back to the default
// state when the file does not exist yet. A file that exists but cannot be
// parsed is an error: silently resetting it would rewind the watermark and
// re-fetch full history.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, state: defaultState()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading app state %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parsing app state %s: %w", path, err)
	}
	if s.state.LastFetchedTimestamp.IsZero() {
		s.state.LastFetchedTimestamp = time.Unix(0, 0).UTC()
	}

	return s, nil
}

// Get returns a copy of the current state.
func (s *FileStore) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastFetched returns the current watermark.
func (s *FileStore) LastFetched() time.Time {
	return s.Get().LastFetchedTimestamp
}

// UpdateLastFetched advances the watermark. A timestamp older than the
// current watermark is ignored, keeping the value monotonic.
func (s *FileStore) UpdateLastFetched(t time.Time) error {
	return s.update(func(st *State) {
		if t.After(st.LastFetchedTimestamp) {
			st.LastFetchedTimestamp = t.UTC()
		}
	})
}

// UpdateHasExistingData caches the has-existing-data flag.
func (s *FileStore) UpdateHasExistingData(v bool) error {
	return s.update(func(st *State) {
		st.HasExistingData = &v
	})
}

// UpdateLastReviewPromptTimestamp records when the review prompt last ran.
func (s *FileStore) UpdateLastReviewPromptTimestamp(t time.Time) error {
	return s.update(func(st *State) {
		st.LastReviewPromptTimestamp = t.UTC()
	})
}

// update applies fn to the in-memory state and rewrites the file. The write
// goes through a temp file and rename so a crash never leaves a truncated
// document behind.
func (s *FileStore) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding app state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".app_state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing app state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing app state %s: %w", s.path, err)
	}

	s.state = next
	return nil
}
