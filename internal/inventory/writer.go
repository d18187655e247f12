package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/vietdv277/bucketscope/pkg/types"
)

// RecordSink accepts finished records as they become available
type RecordSink interface {
	Write(rec *types.OutputRecord) error
}

// Writer appends records to a JSON lines file shared by every project
// goroutine. The file is created on the first write, so a run that emits
// nothing leaves no intermediate file behind. Each record is one complete
// line written with a single append under the lock. Any file already at the
// path is truncated on first open.
type Writer struct {
	path string

	mu      sync.Mutex
	file    *os.File
	records int
}

// NewWriter returns a writer appending to path
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the intermediate file path
func (w *Writer) Path() string {
	return w.path
}

// Write implements RecordSink
func (w *Writer) Write(rec *types.OutputRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record for bucket %s: %w", rec.BucketName, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", w.path, err)
		}
		w.file = f
	}

	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("append to %s: %w", w.path, err)
	}
	w.records++
	return nil
}

// Records returns how many records were appended
func (w *Writer) Records() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.records
}

// Close flushes and closes the file if it was ever opened
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
