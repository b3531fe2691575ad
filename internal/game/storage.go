package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/starwave/internal/types"
)

// CareerStorage handles persistence of the career snapshot
type CareerStorage struct {
	savePath  string
	stateLock sync.Mutex
}

// NewCareerStorage creates a new career storage
func NewCareerStorage(savePath string) *CareerStorage {
	// Create data directory if it doesn't exist
	dir := filepath.Dir(savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		// If we can't create the directory, fall back to the default path
		savePath = "./data/career.json"
	}

	return &CareerStorage{
		savePath: savePath,
	}
}

// Save writes the career snapshot to disk
func (cs *CareerStorage) Save(state *types.CareerState) error {
	cs.stateLock.Lock()
	defer cs.stateLock.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(cs.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Marshal state to JSON
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal career state: %w", err)
	}

	// Write to file
	if err := os.WriteFile(cs.savePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write career state: %w", err)
	}

	return nil
}

// Load reads the career snapshot from disk. A missing or unparsable file is
// treated as "no save present" and returns (nil, nil); only real I/O failures
// surface as errors.
func (cs *CareerStorage) Load() (*types.CareerState, error) {
	cs.stateLock.Lock()
	defer cs.stateLock.Unlock()

	// Check if file exists
	if _, err := os.Stat(cs.savePath); os.IsNotExist(err) {
		return nil, nil
	}

	// Read file
	data, err := os.ReadFile(cs.savePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read career state file: %w", err)
	}

	// Unmarshal JSON; corruption means no save, never a crash
	var state types.CareerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil
	}

	// Restore invariants an old or hand-edited save may have lost
	state.Player.NormalizeFollowers()
	if state.Unreleased == nil {
		state.Unreleased = make([]types.Song, 0)
	}
	if state.Released == nil {
		state.Released = make([]types.Song, 0)
	}

	return &state, nil
}
