package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/netforge-os/confgen/pkg/util"
)

// Logger defines the interface for audit logging backends
type Logger interface {
	Log(event *Event) error
	Query(filter Filter) ([]*Event, error)
	Close() error
}

// RotationConfig configures log file rotation
type RotationConfig struct {
	MaxSize    int64 // bytes; 0 disables rotation
	MaxBackups int   // rotated files kept; 0 keeps all
}

// DefaultRotation is used by the command line tools
var DefaultRotation = RotationConfig{
	MaxSize:    4 * 1024 * 1024,
	MaxBackups: 5,
}

// FileLogger appends events to a JSON-lines file. It is safe for
// concurrent use; netname may run once per device during boot.
type FileLogger struct {
	path     string
	rotation RotationConfig

	mu      sync.RWMutex
	file    *os.File
	encoder *json.Encoder
}

// NewFileLogger opens (or creates) the audit log at path
func NewFileLogger(path string, rotation RotationConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating audit log directory: %w", err)
	}
	l := &FileLogger{path: path, rotation: rotation}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) open() error {
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	l.file = file
	l.encoder = json.NewEncoder(file)
	return nil
}

// Log appends one event, rotating first when the file reached MaxSize
func (l *FileLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rotation.MaxSize > 0 {
		if info, err := l.file.Stat(); err == nil && info.Size() >= l.rotation.MaxSize {
			if err := l.rotate(); err != nil {
				return fmt.Errorf("rotating audit log: %w", err)
			}
		}
	}
	return l.encoder.Encode(event)
}

// Query returns the events of the current file that match filter, oldest
// first
func (l *FileLogger) Query(filter Filter) ([]*Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Event{}, nil
		}
		return nil, err
	}
	defer file.Close()

	events := []*Event{}
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			util.Warnf("audit: skipping malformed entry at line %d: %v", line, err)
			continue
		}
		if filter.matches(&event) {
			events = append(events, &event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(events) {
			return []*Event{}, nil
		}
		events = events[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(events) {
		events = events[:filter.Limit]
	}
	return events, nil
}

// Close closes the log file
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

func (f Filter) matches(event *Event) bool {
	switch {
	case f.Operation != "" && event.Operation != f.Operation:
		return false
	case f.Interface != "" && event.Interface != f.Interface:
		return false
	case f.Name != "" && event.Name != f.Name:
		return false
	case !f.StartTime.IsZero() && event.Timestamp.Before(f.StartTime):
		return false
	case !f.EndTime.IsZero() && event.Timestamp.After(f.EndTime):
		return false
	case f.SuccessOnly && !event.Success:
		return false
	case f.FailureOnly && event.Success:
		return false
	}
	return true
}

// rotate renames the current file with a timestamp suffix, reopens an
// empty file and prunes old backups. Caller holds l.mu.
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	rotated := l.path + "." + time.Now().Format("20060102-150405.000000000")
	if err := os.Rename(l.path, rotated); err != nil {
		// Keep appending to the unrotated file.
		if reopenErr := l.open(); reopenErr != nil {
			return fmt.Errorf("%v; reopening: %w", err, reopenErr)
		}
		return err
	}
	if err := l.open(); err != nil {
		return err
	}
	if l.rotation.MaxBackups > 0 {
		l.pruneBackups()
	}
	return nil
}

// pruneBackups removes the oldest rotated files beyond MaxBackups. The
// timestamp suffix sorts chronologically.
func (l *FileLogger) pruneBackups() {
	backups, err := filepath.Glob(l.path + ".*")
	if err != nil || len(backups) <= l.rotation.MaxBackups {
		return
	}
	sort.Strings(backups)
	for _, path := range backups[:len(backups)-l.rotation.MaxBackups] {
		if err := os.Remove(path); err != nil {
			util.Warnf("audit: removing old log %s: %v", path, err)
		}
	}
}
