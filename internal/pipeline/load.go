package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// TableWriter accumulates converted records and writes them out as the JSON
// lookup table the API's series store loads. Records are keyed by series
// name, so a later file for the same series wins.
type TableWriter struct {
	path    string
	records map[string]soil.SeriesRecord
}

func NewTableWriter(path string) *TableWriter {
	return &TableWriter{
		path:    path,
		records: make(map[string]soil.SeriesRecord),
	}
}

// LoadBatch implements BatchLoader by accumulating in memory. Flush writes
// the table once the run completes.
func (w *TableWriter) LoadBatch(_ context.Context, records []soil.SeriesRecord) error {
	for _, rec := range records {
		w.records[rec.Series] = rec
	}
	return nil
}

func (w *TableWriter) Len() int {
	return len(w.records)
}

// Flush writes the accumulated table to disk. The write goes through a temp
// file and rename so a running API never loads a half-written table.
func (w *TableWriter) Flush() error {
	data, err := json.MarshalIndent(w.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal series table: %w", err)
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".series-table-*.json")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write series table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close series table: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("rename series table: %w", err)
	}
	return nil
}
