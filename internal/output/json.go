/*
PURPOSE:
  Writes per-combination outcomes to a JSON Lines file (NDJSON).
  Unlike the CSV table it also records failures and their errors.

REQUIREMENTS:
  Implementation-discovered:
  - JSON Lines is append-friendly, so a journal survives an interrupted sweep
    up to the last finished combination.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Sweep)
  - Consumes: internal/model.Outcome

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Appends; never truncates an existing journal.

USAGE:
  j, err := output.NewJournal("sweep.jsonl")
  j.Record(outcome)
  j.Close()
*/

package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/daryltucker/flexsweep/internal/model"
)

// Journal handles writing outcomes to a JSON Lines file.
type Journal struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJournal opens path for appending, creating it if needed.
func NewJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Record writes a single outcome as a JSON line.
func (j *Journal) Record(o model.Outcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.encoder.Encode(o)
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	return j.file.Close()
}
