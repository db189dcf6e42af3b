package mastery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

const debounceInterval = 100 * time.Millisecond

// Store persists imported snapshots.
type Store interface {
	// InsertMasterySnapshotIfAbsent stores the snapshot unless its timestamp is
	// already present and reports whether it was stored.
	InsertMasterySnapshotIfAbsent(snapshot *models.MasterySnapshot) (bool, error)
}

// Result summarizes one import.
type Result struct {
	Path     string
	Imported int
	Skipped  int
}

// Event represents a mastery import event.
type Event struct {
	Error  error
	Result Result
	Type   EventType
}

// EventType defines the type of mastery event.
type EventType int

const (
	// EventImported indicates that an import file was processed.
	EventImported EventType = iota
	// EventError indicates that an import or the watcher failed.
	EventError
)

// ImportFile reads path and stores every snapshot whose timestamp is not
// already present. Payloads without a timestamp are stamped with the file's
// modification time, so re-importing an unchanged file stores nothing.
func ImportFile(store Store, path string) (Result, error) {
	result := Result{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return result, fmt.Errorf("failed to stat import file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read import file: %w", err)
	}

	snapshots, err := ParsePayloads(data, info.ModTime())
	if err != nil {
		return result, err
	}

	for i := range snapshots {
		inserted, err := store.InsertMasterySnapshotIfAbsent(&snapshots[i])
		if err != nil {
			return result, err
		}
		if inserted {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// Service watches the import file and imports it whenever it is written.
type Service struct {
	mu            sync.Mutex
	importMu      sync.Mutex
	store         Store
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New creates the service, imports the file if it already exists, and starts
// watching its directory.
func New(filePath string, store Store) (*Service, error) {
	if filePath == "" {
		return nil, errors.New("mastery import path is empty")
	}

	s := &Service{
		store:     store,
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create import directory: %w", err)
	}

	if _, err := os.Stat(filePath); err == nil {
		s.handleFileChange()
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the watched import file.
func (s *Service) Path() string {
	return s.filePath
}

// Import imports path immediately and reports the outcome as an event.
func (s *Service) Import(path string) (Result, error) {
	s.importMu.Lock()
	result, err := ImportFile(s.store, path)
	s.importMu.Unlock()
	if err != nil {
		logger.Error("mastery import failed", "path", path, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err, Result: result})
		return result, err
	}

	logger.Info("mastery import finished", "path", path, "imported", result.Imported, "skipped", result.Skipped)
	s.sendEvent(Event{Type: EventImported, Result: result})
	return result, nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation and atomic renames)
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleFileChange() {
	select {
	case <-s.stopChan:
		return
	default:
	}
	_, _ = s.Import(s.filePath)
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
