// Package sync runs incremental catalog synchronization: fetch the three
// record kinds changed since the stored watermark, merge them into the local
// store, and advance the watermark. At most one pass runs at a time across
// every trigger source (startup, manual refresh, periodic schedule).
package sync

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nvo/collection-tracker/internal/catalog"
)

// State is the terminal state of one sync pass.
type State int

const (
	// StateSuccess means new data was fetched and merged.
	StateSuccess State = iota

	// StateNoNewData means the pass completed but there was nothing to
	// merge, either because the catalog returned empty lists or because a
	// concurrent pass already covered this caller's window.
	StateNoNewData

	// StateFailure means a recoverable fetch failure; Result.Message
	// carries the user-facing explanation. Retry is a fresh Sync call.
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateNoNewData:
		return "no new data"
	case StateFailure:
		return "failure"
	}
	return "unknown"
}

// Result is the outcome of one sync pass.
type Result struct {
	State   State
	Message string
}

// User-facing messages per failure kind.
const (
	msgNoConnectivity = "No internet connection"
	msgTimeout        = "Connection timeout - please try again"
	msgResponseError  = "Network response error"
	msgGeneric        = "Sync failed. Please check your internet."
)

// Coordinator orchestrates sync passes. The zero value is not usable; create
// one with New. The single-flight lock is owned by the Coordinator rather
// than shared ambiently, so tests can run isolated instances.
type Coordinator struct {
	gateway Gateway
	merger  Merger
	marks   Watermarks
	logger  *log.Logger

	// lock is a single-slot semaphore. Blocked acquirers queue in the
	// runtime's channel wait list, which hands the slot over first come
	// first served.
	lock chan struct{}

	// now is split out for tests; the fetch-start instant it returns
	// becomes the new watermark on success.
	now func() time.Time
}

// New creates a Coordinator. If logger is nil, a default logger writing to
// stderr is used.
func New(gateway Gateway, merger Merger, marks Watermarks, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Coordinator{
		gateway: gateway,
		merger:  merger,
		marks:   marks,
		logger:  logger,
		lock:    make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Sync runs one incremental synchronization pass.
//
// Recoverable fetch failures come back as a StateFailure Result with a nil
// error. The error return is reserved for conditions the caller must not
// treat as retry-able noise: context cancellation and storage integrity or
// constraint violations, which indicate a bug rather than a bad connection.
//
// Cancellation is honored between steps, never inside the merge
// transaction: an interrupted pass leaves the store either fully pre-merge
// or fully post-merge.
func (c *Coordinator) Sync(ctx context.Context) (Result, error) {
	// The watermark this caller intends to fetch from, read before
	// queueing on the lock.
	intended := c.marks.LastFetched()

	if err := c.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer c.release()

	runID := uuid.NewString()[:8]

	// Re-read under the lock: if a pass that finished while this caller
	// was queued already advanced the watermark, the work is done.
	if c.marks.LastFetched().After(intended) {
		c.logger.Printf("sync %s: skipped, already performed by a would-be concurrent pass", runID)
		return Result{State: StateNoNewData}, nil
	}

	// The watermark must be the instant fetching started, not finished,
	// so records created while the requests were in flight are picked up
	// by the next pass instead of falling into a gap.
	fetchStart := c.now()

	var (
		groups     []catalog.GroupRecord
		items      []catalog.ItemRecord
		components []catalog.ComponentRecord
	)

	g, fetchCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = c.gateway.FetchGroups(fetchCtx, intended)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = c.gateway.FetchItems(fetchCtx, intended)
		return err
	})
	g.Go(func() error {
		var err error
		components, err = c.gateway.FetchComponents(fetchCtx, intended)
		return err
	})

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return c.fetchFailure(runID, err), nil
	}

	if len(groups) == 0 && len(items) == 0 && len(components) == 0 {
		// A clean fetch with nothing new still advances the watermark so
		// the same empty window is not re-scanned forever.
		if err := c.marks.UpdateLastFetched(fetchStart); err != nil {
			c.logger.Printf("sync %s: persisting watermark: %v", runID, err)
		}
		c.logger.Printf("sync %s: no new data", runID)
		return Result{State: StateNoNewData}, nil
	}

	// Last cancellation check before the transaction; the merge itself
	// runs to completion once started.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	err := c.merger.MergeAll(
		context.WithoutCancel(ctx),
		catalog.GroupPatches(groups),
		catalog.ItemPatches(items),
		catalog.ComponentPatches(components),
	)
	if err != nil {
		// Integrity and constraint violations are bugs, not transient
		// conditions; they propagate to the caller instead of becoming a
		// retry-able failure state.
		c.logger.Printf("sync %s: merge failed: %v", runID, err)
		return Result{}, err
	}

	if err := c.marks.UpdateLastFetched(fetchStart); err != nil {
		c.logger.Printf("sync %s: persisting watermark: %v", runID, err)
	}

	c.logger.Printf("sync %s: merged %d groups, %d items, %d components",
		runID, len(groups), len(items), len(components))
	return Result{State: StateSuccess}, nil
}

// fetchFailure converts a fetch error into the failure Result shown to the
// user.
func (c *Coordinator) fetchFailure(runID string, err error) Result {
	c.logger.Printf("sync %s: fetch failed: %v", runID, err)

	if ne, ok := catalog.AsNetworkError(err); ok {
		switch ne.Kind {
		case catalog.NetworkErrorNoConnectivity:
			return Result{State: StateFailure, Message: msgNoConnectivity}
		case catalog.NetworkErrorTimeout:
			return Result{State: StateFailure, Message: msgTimeout}
		default:
			return Result{State: StateFailure, Message: msgResponseError}
		}
	}

	return Result{State: StateFailure, Message: msgGeneric}
}

// acquire takes the single-flight lock, waiting in line behind earlier
// callers. It fails only when ctx is cancelled while waiting.
func (c *Coordinator) acquire(ctx context.Context) error {
	select {
	case c.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) release() {
	<-c.lock
}
