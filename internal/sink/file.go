// Package sink provides the append-only file storage for submitted reports.
package sink

import (
	"fmt"
	"os"
	"sync"
)

// DefaultTargetPath is used when no target path is configured.
const DefaultTargetPath = "reports.csv"

// Config holds the options recognized by FileSink.
type Config struct {
	// TargetPath is the file lines are appended to. Relative paths resolve
	// against the working directory.
	TargetPath string
}

// FileSink appends lines to a single file.
//
// mu serializes Append calls made through this FileSink, so lines written by
// concurrent callers never interleave. It does not coordinate with other
// processes, or with other FileSink values pointing at the same path.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a FileSink for cfg.TargetPath. The file is not touched
// until the first Append.
func NewFileSink(cfg Config) *FileSink {
	path := cfg.TargetPath
	if path == "" {
		path = DefaultTargetPath
	}

	return &FileSink{path: path}
}

// Path returns the file the sink appends to.
func (s *FileSink) Path() string {
	return s.path
}

// Append opens the target file, creating it if absent, writes line at the end
// and flushes it to stable storage before returning. The lock is held for the
// whole sequence. Errors are not retried and a partial write is not undone.
func (s *FileSink) Append(line string) (err error) {
	const op = "sink.FileSink.Append"

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%s: failed to open file: %w", op, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: failed to close file: %w", op, cerr)
		}
	}()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%s: failed to write line: %w", op, err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("%s: failed to sync file: %w", op, err)
	}

	return nil
}
