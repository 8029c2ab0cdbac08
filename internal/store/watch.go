package store

import (
	"context"
	"sync"

	"github.com/nvo/collection-tracker/internal/model"
)

// watcher fans a change signal out to active subscriptions. Every committed
// mutation calls notify; each subscription re-runs its query and pushes a
// fresh snapshot. Subscriptions are lazy and restartable: cancelling the
// context stops delivery without touching the store.
type watcher struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
	closed bool
}

func newWatcher() *watcher {
	return &watcher{subs: make(map[int]chan struct{})}
}

// subscribe registers a change listener and returns its signal channel plus
// an unsubscribe function.
func (w *watcher) subscribe() (<-chan struct{}, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	ch := make(chan struct{}, 1)
	if w.closed {
		close(ch)
		return ch, func() {}
	}
	w.subs[id] = ch

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.subs[id]; ok {
			delete(w.subs, id)
		}
	}
}

// notify signals all subscriptions. The signal is coalescing: a subscriber
// that has not yet consumed the previous signal is not queued a second one,
// it re-queries once and observes the post-write state.
func (w *watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for id, ch := range w.subs {
		close(ch)
		delete(w.subs, id)
	}
}

// watch runs query once immediately and again after every store change,
// pushing each snapshot to the returned channel. Delivery stops when ctx is
// cancelled or the store closes. A slow consumer delays snapshots but never
// loses the final state: signals coalesce and every push re-queries.
func watch[T any](
	ctx context.Context,
	w *watcher,
	query func(context.Context) ([]T, error),
) <-chan []T {
	out := make(chan []T, 1)
	signal, unsubscribe := w.subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			snapshot, err := query(ctx)
			if err != nil {
				// Query failures end the subscription; the caller can
				// resubscribe. Cancellation lands here too.
				return
			}

			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-signal:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// WatchVisibleGroups streams snapshots of the visible groups.
func (s *SQLiteStore) WatchVisibleGroups(ctx context.Context) <-chan []model.Group {
	return watch(ctx, s.watcher, s.GetVisibleGroups)
}

// WatchVisibleItems streams snapshots of the visible items.
func (s *SQLiteStore) WatchVisibleItems(ctx context.Context) <-chan []model.Item {
	return watch(ctx, s.watcher, s.GetVisibleItems)
}

// WatchItemComponents streams snapshots of one item's components.
func (s *SQLiteStore) WatchItemComponents(ctx context.Context, itemID int) <-chan []model.ItemComponent {
	return watch(ctx, s.watcher, func(ctx context.Context) ([]model.ItemComponent, error) {
		return s.GetItemComponents(ctx, itemID)
	})
}
