/*
PURPOSE:
  Result table accumulator. Appends one CSV row per executed combination.

REQUIREMENTS:
  User-specified:
  - Header comes from the first record's column order when the file is new.
  - An existing file's header is authoritative; later records are written in
    its column order and never widen it.
  - Earlier rows are never rewritten, so re-running a sweep against the same
    file resumes it.

  Implementation-discovered:
  - The file is opened, appended and closed per row so a reader always sees a
    consistent prefix between combinations.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Sweep)
  - Consumes: internal/model.Record

ERROR HANDLING:
  - Returns error on file open, header read or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() before close on every append.

USAGE:
  t := output.NewTable("results.csv")
  t.Append(record)
*/

package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/daryltucker/flexsweep/internal/model"
)

// Table is an append-only CSV result table.
type Table struct {
	path string
}

// NewTable returns a table backed by the file at path. Nothing is created
// until the first Append.
func NewTable(path string) *Table {
	return &Table{path: path}
}

// Path returns the backing file path.
func (t *Table) Path() string {
	return t.path
}

// Append writes r as one row, creating the file and its header first when
// it does not exist.
func (t *Table) Append(r model.Record) error {
	header, err := t.Header()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(t.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open result table %s: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header == nil {
		header = r.Columns()
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", t.path, err)
		}
	}

	row := make([]string, len(header))
	for i, col := range header {
		row[i], _ = r.Get(col)
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", t.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", t.path, err)
	}
	return f.Close()
}

// Header returns the established header, or nil when the table has not been
// written yet.
func (t *Table) Header() ([]string, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open result table %s: %w", t.path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", t.path, err)
	}
	return header, nil
}
