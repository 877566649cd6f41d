package audit

import (
	"fmt"
	"os"
	"sync"
)

// Log is the append-only audit record of successful verifications:
// one "scratchHandle,requesterID" line per pairing, never rewritten.
type Log struct {
	mu   sync.Mutex
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one record. The file is opened per call so an external
// rotation of the file never leaves a stale handle behind.
func (l *Log) Append(scratchHandle, requesterID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s,%s\n", scratchHandle, requesterID); err != nil {
		f.Close()
		return fmt.Errorf("append audit record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	return nil
}
