// Package checkpoint persists crawl progress as append-only CSV files.
//
// Every Append is a single open-write-fsync-close cycle, so a crash between
// two calls loses at most the batch being written.
package checkpoint

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Logical checkpoint names
const (
	JobURLs        = "job-urls"
	JobURLsFailed  = "job-urls-failed"
	JobDetails     = "job-details"
	JobDetailsFail = "job-details-failed"
)

// All lists every checkpoint a crawl writes to
var All = []string{JobURLs, JobURLsFailed, JobDetails, JobDetailsFail}

var ErrEmptyName = errors.New("checkpoint name is empty")

// Store maps logical checkpoint names to CSV files under a directory
type Store struct {
	dir    string
	prefix string
}

// NewStore creates the directory if needed
func NewStore(dir, prefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &Store{dir: dir, prefix: prefix}, nil
}

// Path returns the file backing a checkpoint
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, s.prefix+name+".csv")
}

// Append writes rows to the end of the file. The header is written first
// only when the file does not exist yet or is empty.
func (s *Store) Append(name string, header []string, rows [][]string) error {
	if name == "" {
		return ErrEmptyName
	}
	path := s.Path(name)

	writeHeader := true
	if info, err := os.Stat(path); err == nil {
		writeHeader = info.Size() == 0
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header %s: %w", path, err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return f.Close()
}

// Clear truncates the file to empty, creating it if needed
func (s *Store) Clear(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	return f.Close()
}

// CreateIfMissing ensures the file exists without touching existing content
func (s *Store) CreateIfMissing(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	return f.Close()
}

// ReadAll returns every row including the header row
func (s *Store) ReadAll(name string) ([][]string, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return rows, nil
}

// Size returns the file size in bytes, 0 if it does not exist
func (s *Store) Size(name string) int64 {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return 0
	}
	return info.Size()
}

// Reset clears every named checkpoint
func (s *Store) Reset(names ...string) error {
	for _, name := range names {
		if err := s.Clear(name); err != nil {
			return err
		}
	}
	return nil
}

// Ensure creates every named checkpoint that does not exist yet
func (s *Store) Ensure(names ...string) error {
	for _, name := range names {
		if err := s.CreateIfMissing(name); err != nil {
			return err
		}
	}
	return nil
}
