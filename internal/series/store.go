// Package series provides an in-memory lookup table of official series
// descriptions, loaded from the JSON file produced by the osdconvert tool.
package series

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// Store holds parsed series records keyed by upper-cased series name.
// Lookups are case-insensitive. A Store with no table loaded is usable
// but reports not ready and answers every lookup with a miss.
type Store struct {
	mu      sync.RWMutex
	records map[string]soil.SeriesRecord
	ready   bool
}

func NewStore() *Store {
	return &Store{records: make(map[string]soil.SeriesRecord)}
}

// LoadFile reads a lookup table written by the converter pipeline and
// replaces the store's contents with it.
func (s *Store) LoadFile(path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read series table: %w", err)
	}

	var table map[string]soil.SeriesRecord
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("decode series table %s: %w", path, err)
	}

	records := make(map[string]soil.SeriesRecord, len(table))
	for name, rec := range table {
		records[strings.ToUpper(strings.TrimSpace(name))] = rec
	}

	s.mu.Lock()
	s.records = records
	s.ready = true
	s.mu.Unlock()

	logger.Info("series table loaded", "path", path, "records", len(records))
	return nil
}

// Lookup returns the record for a series name, matching without regard
// to case or surrounding whitespace.
func (s *Store) Lookup(name string) (soil.SeriesRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[strings.ToUpper(strings.TrimSpace(name))]
	return rec, ok
}

// Names returns every series name in the table, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ready reports whether a table has been loaded. The HTTP readiness
// probe uses this to signal that series lookups can be served locally.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}
