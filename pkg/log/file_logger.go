package log

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// RotatedSuffix is appended to the trace path when a full file is moved
// aside.
const RotatedSuffix = ".1"

// FileLogger appends events to a trace file, one CBOR item per event.
// With a size limit the file is moved to path+RotatedSuffix once the next
// event would exceed it, so the trace never holds more than two files.
type FileLogger struct {
	path     string
	maxBytes int64

	mu   sync.Mutex
	file *os.File
	size int64
	err  error
}

// NewFileLogger opens path for appending. maxBytes of zero disables
// rotation.
func NewFileLogger(path string, maxBytes int64) (*FileLogger, error) {
	if maxBytes < 0 {
		return nil, fmt.Errorf("log: negative trace size limit %d", maxBytes)
	}
	l := &FileLogger{path: path, maxBytes: maxBytes}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) open() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log: open trace: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("log: stat trace: %w", err)
	}
	l.file, l.size = f, info.Size()
	return nil
}

// Path returns the trace file path.
func (l *FileLogger) Path() string {
	return l.path
}

// Log appends event. Failures never reach the caller; the first one is
// kept for Err.
func (l *FileLogger) Log(event Event) {
	data, err := Marshal(event)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	if err == nil && l.maxBytes > 0 && l.size > 0 && l.size+int64(len(data)) > l.maxBytes {
		err = l.rotate()
	}
	if err == nil && l.file != nil {
		var n int
		n, err = l.file.Write(data)
		l.size += int64(n)
	}
	if err != nil && l.err == nil {
		l.err = err
	}
}

// rotate moves the current file aside and starts an empty one. A failed
// reopen leaves the logger closed.
func (l *FileLogger) rotate() error {
	closeErr := l.file.Close()
	l.file = nil
	renameErr := os.Rename(l.path, l.path+RotatedSuffix)
	if err := l.open(); err != nil {
		return err
	}
	return errors.Join(closeErr, renameErr)
}

// Read returns the events of the rotated and the current file matching f,
// oldest first. Writers wait while the files are read.
func (l *FileLogger) Read(f Filter) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ReadFile(l.path, f)
}

// Err returns the first write or encoding error.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the file; later events are dropped. Close is idempotent.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
