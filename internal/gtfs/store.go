package gtfs

import (
	"log/slog"
	"sync"
)

// Store provides load-once access to the GTFS tables. The first call to
// Tables triggers the load; concurrent first callers share that single load
// and every later call returns the same immutable result.
type Store struct {
	dir    string
	logger *slog.Logger

	once   sync.Once
	tables *Tables
	err    error
}

// NewStore creates a Store reading from the given directory of .txt tables.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Tables returns the loaded tables, loading them on first use.
func (s *Store) Tables() (*Tables, error) {
	s.once.Do(func() {
		s.tables, s.err = LoadDir(s.dir, s.logger)
	})
	return s.tables, s.err
}
