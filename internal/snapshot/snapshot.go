// Package snapshot persists the latest polled values as a JSON file that
// other tools can read while a watch is running.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/pine/pkg/command"
)

// Entry is one command and its latest result.
type Entry struct {
	Command string  `json:"command"`
	Result  string  `json:"result"`
	Value   *uint64 `json:"value,omitempty"`
	Text    *string `json:"text,omitempty"`
}

// Snapshot is the persisted view of one poll.
type Snapshot struct {
	// Endpoint is the address the values were read from.
	Endpoint string `json:"endpoint"`

	// Polls counts the polls that produced a change.
	Polls uint64 `json:"polls"`

	// Changed lists the entry positions that changed in this poll.
	Changed []int `json:"changed"`

	Entries []Entry `json:"entries"`

	CapturedAt time.Time `json:"captured_at"`
}

// IsEmpty returns true if no poll has been recorded.
func (s Snapshot) IsEmpty() bool {
	return len(s.Entries) == 0
}

// Build pairs cmds with results into entries.
func Build(cmds []command.Command, results []command.Result, changed []int) (Snapshot, error) {
	if len(cmds) != len(results) {
		return Snapshot{}, fmt.Errorf("%d commands, %d results", len(cmds), len(results))
	}
	s := Snapshot{
		Changed:    changed,
		Entries:    make([]Entry, len(cmds)),
		CapturedAt: time.Now().UTC(),
	}
	for i, cmd := range cmds {
		e := Entry{Command: cmd.String(), Result: results[i].String()}
		if v, ok := command.Uint(results[i]); ok {
			e.Value = &v
		}
		if t, ok := command.Text(results[i]); ok {
			e.Text = &t
		}
		s.Entries[i] = e
	}
	return s, nil
}

// FileWriter stores snapshots in a single JSON file.
type FileWriter struct {
	path string
}

// NewFileWriter creates a FileWriter for the given path.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Load retrieves the last saved snapshot from disk.
// Returns an empty snapshot and nil error if no file exists.
func (w *FileWriter) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Save persists s atomically: readers see either the previous file or the
// new one, never a partial write.
func (w *FileWriter) Save(ctx context.Context, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, w.path)
}

// Path returns the full path to the snapshot file.
func (w *FileWriter) Path() string {
	return w.path
}
