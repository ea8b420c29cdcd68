// Package diag is the diagnostics sink: every page the monitor fetches and
// every derived snapshot is recorded through it so a failed run still leaves
// an inspectable trace on disk.
package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Sink receives labeled diagnostic artifacts.
type Sink interface {
	Record(label, content string) error
}

var unsafeLabelRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileSink writes each record as a file under a base directory.
type FileSink struct {
	dir string
}

// NewFileSink ensures the directory exists and returns a sink writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func (f *FileSink) Record(label, content string) error {
	name := unsafeLabelRe.ReplaceAllString(label, "_")
	if name == "" {
		name = "unnamed"
	}
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write diagnostic %s: %w", name, err)
	}
	return nil
}

// MemorySink collects records in memory; used in tests.
type MemorySink struct {
	mu      sync.Mutex
	Records map[string]string
	Order   []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{Records: map[string]string{}}
}

func (m *MemorySink) Record(label, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.Records[label]; !seen {
		m.Order = append(m.Order, label)
	}
	m.Records[label] = content
	return nil
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Record(string, string) error { return nil }
