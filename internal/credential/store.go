package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Key is the fixed name the advisory credential is stored under.
const Key = "GEMINI_API_KEY"

// ErrNotFound is returned when no credential is configured anywhere.
var ErrNotFound = errors.New("credential not found")

type fileState struct {
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store persists credentials in a local JSON file, stored in plain text.
// Environment variables are consulted when the file has no value.
type Store struct {
	mu       sync.Mutex
	filePath string
	envKeys  []string
}

// NewStore creates a store backed by filePath. envKeys are checked in order as a fallback.
func NewStore(filePath string, envKeys ...string) *Store {
	return &Store{filePath: filePath, envKeys: envKeys}
}

// Get returns the stored credential, then the first non-empty env fallback.
func (s *Store) Get() (string, error) {
	s.mu.Lock()
	state, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	if v := state.Values[Key]; v != "" {
		return v, nil
	}
	for _, k := range s.envKeys {
		if v := os.Getenv(k); v != "" {
			return v, nil
		}
	}
	return "", ErrNotFound
}

// Set stores value under Key. An empty value clears it.
func (s *Store) Set(value string) error {
	value = strings.TrimSpace(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if value == "" {
		delete(state.Values, Key)
	} else {
		state.Values[Key] = value
	}
	state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create credential dir: %w", err)
		}
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// load reads the state file. Returns an empty state if the file doesn't exist.
func (s *Store) load() (*fileState, error) {
	state := &fileState{Values: map[string]string{}}
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if state.Values == nil {
		state.Values = map[string]string{}
	}
	return state, nil
}

// Mask hides all but the last four characters.
func Mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
