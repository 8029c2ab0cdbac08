package sync

import (
	"context"
	"log"
	"os"
	gosync "sync"
	"time"
)

// defaultSyncInterval is how often the background pass runs when the caller
// does not specify an interval.
const defaultSyncInterval = 24 * time.Hour

// passTimeout bounds one scheduled pass end to end.
const passTimeout = 10 * time.Minute

// Scheduler triggers a periodic background sync pass. It is a trigger
// source only: the Coordinator's lock still serializes it against manual
// refreshes.
type Scheduler struct {
	coord    *Coordinator
	interval time.Duration
	logger   *log.Logger

	// connectivity gates scheduled passes; nil means always run. A pass
	// skipped for lack of connectivity is not rescheduled early; the
	// next tick retries.
	connectivity func() bool

	mu      gosync.Mutex
	running bool
	stopCh  chan struct{}
	wg      gosync.WaitGroup
}

// NewScheduler creates a scheduler for the given coordinator. A
// non-positive interval selects the default of 24 hours. If logger is nil,
// a default logger writing to stderr is used.
func NewScheduler(coord *Coordinator, interval time.Duration, connectivity func() bool, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[scheduler] ", log.LstdFlags)
	}
	return &Scheduler{
		coord:        coord,
		interval:     interval,
		connectivity: connectivity,
		logger:       logger,
	}
}

// Start launches the periodic loop. Calling Start while the scheduler is
// already running is a no-op, so duplicate schedule requests collapse into
// the one pending instance.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.stopCh)
}

// Stop halts the loop and waits for an in-flight pass to finish. Safe to
// call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) run(stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// runOnce performs one scheduled pass. Failures are visible only in the
// log; the next user-visible retry is a manual refresh or the next tick.
func (s *Scheduler) runOnce() {
	if s.connectivity != nil && !s.connectivity() {
		s.logger.Printf("scheduled sync skipped: no connectivity")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()

	result, err := s.coord.Sync(ctx)
	if err != nil {
		s.logger.Printf("scheduled sync error: %v", err)
		return
	}

	switch result.State {
	case StateFailure:
		s.logger.Printf("scheduled sync failed: %s", result.Message)
	default:
		s.logger.Printf("scheduled sync: %s", result.State)
	}
}
