package leetcode

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// ErrCollectionInProgress is returned by CollectNow while another run holds the semaphore.
var ErrCollectionInProgress = errors.New("collection already in progress")

// Collector produces a progress snapshot.
type Collector interface {
	Collect(ctx context.Context, now time.Time) (*models.ProgressSnapshot, error)
}

// Store persists collected snapshots.
type Store interface {
	InsertProgressSnapshot(snapshot *models.ProgressSnapshot) error
}

// Event represents a collection service event.
type Event struct {
	Error    error
	Snapshot *models.ProgressSnapshot
	RunID    string
	Duration time.Duration
	Type     EventType
}

// EventType defines the type of collection event.
type EventType int

const (
	// EventSnapshotCollected indicates that a snapshot was fetched and stored.
	EventSnapshotCollected EventType = iota
	// EventCollecting indicates that a collection run started.
	EventCollecting
	// EventCollectError indicates that a collection run failed.
	EventCollectError
)

// Config holds configuration for the collection service.
type Config struct {
	PollInterval   time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	// Manual disables the background poller; only CollectNow collects.
	Manual bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:   6 * time.Hour,
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
	}
}

// Service polls the collector and persists each snapshot.
type Service struct {
	collector Collector
	store     Store
	eventChan chan Event
	stopChan  chan struct{}
	sem       chan struct{}
	config    Config
	now       func() time.Time

	mu          sync.RWMutex
	last        *models.ProgressSnapshot
	lastAttempt time.Time
	lastErr     error

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a collection service and, unless config.Manual is set, starts
// polling with an immediate first run.
func New(collector Collector, store Store, config Config) *Service {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}

	s := &Service{
		collector: collector,
		store:     store,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		sem:       make(chan struct{}, 1),
		config:    config,
		now:       time.Now,
	}

	if !config.Manual {
		s.wg.Add(1)
		go s.poll()
	}

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Interval returns the polling interval.
func (s *Service) Interval() time.Duration {
	return s.config.PollInterval
}

// Last returns the most recently stored snapshot, the time of the last
// attempt and its error, if any.
func (s *Service) Last() (*models.ProgressSnapshot, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastAttempt, s.lastErr
}

// CollectNow runs one collection with retries. It fails fast with
// ErrCollectionInProgress when a run is already active.
func (s *Service) CollectNow(ctx context.Context) (*models.ProgressSnapshot, error) {
	select {
	case s.sem <- struct{}{}:
	default:
		return nil, ErrCollectionInProgress
	}
	defer func() { <-s.sem }()

	runID := uuid.NewString()
	start := s.now()

	s.sendEvent(Event{Type: EventCollecting, RunID: runID})

	snapshot, err := s.collectWithRetry(ctx, runID)
	if err == nil {
		if err = s.store.InsertProgressSnapshot(snapshot); err != nil {
			err = fmt.Errorf("failed to store snapshot: %w", err)
		}
	}

	duration := s.now().Sub(start)

	s.mu.Lock()
	s.lastAttempt = start
	s.lastErr = err
	if err == nil {
		s.last = snapshot
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("collection failed", "run", runID, "error", err)
		s.sendEvent(Event{Type: EventCollectError, RunID: runID, Error: err, Duration: duration})
		return nil, err
	}

	logger.Info("snapshot collected", "run", runID,
		"easy", snapshot.Easy, "medium", snapshot.Medium, "hard", snapshot.Hard,
		"duration", duration)
	s.sendEvent(Event{Type: EventSnapshotCollected, RunID: runID, Snapshot: snapshot, Duration: duration})

	return snapshot, nil
}

func (s *Service) collectWithRetry(ctx context.Context, runID string) (*models.ProgressSnapshot, error) {
	var snapshot *models.ProgressSnapshot
	var err error

	// Retry with exponential backoff
	backoff := s.config.InitialBackoff
	for i := range s.config.MaxAttempts {
		snapshot, err = s.collector.Collect(ctx, s.now())
		if err == nil {
			return snapshot, nil
		}

		// Retrying cannot fix configuration
		if errors.Is(err, ErrMissingCredentials) {
			return nil, err
		}

		if i == s.config.MaxAttempts-1 {
			break
		}

		logger.Warn("collection attempt failed", "run", runID, "attempt", i+1, "error", err)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.stopChan:
			return nil, err
		}
	}

	return nil, err
}

// poll runs the background polling goroutine.
func (s *Service) poll() {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Initial collection
	s.collectFromPoller(ctx)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.collectFromPoller(ctx)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) collectFromPoller(ctx context.Context) {
	if _, err := s.CollectNow(ctx); errors.Is(err, ErrCollectionInProgress) {
		logger.Debug("skipping scheduled collection, run in progress")
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
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

// Close stops the poller and waits for it to exit.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}
