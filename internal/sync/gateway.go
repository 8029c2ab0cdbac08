package sync

import (
	"context"
	"time"

	"github.com/nvo/collection-tracker/internal/catalog"
	"github.com/nvo/collection-tracker/internal/model"
)

// Gateway is the remote fetch surface the coordinator depends on. Each call
// returns the records changed since the given instant; an empty slice, never
// nil, when there is nothing new. since must be a real past instant; the
// catalog service validates it.
//
// *catalog.Client implements Gateway.
type Gateway interface {
	FetchGroups(ctx context.Context, since time.Time) ([]catalog.GroupRecord, error)
	FetchItems(ctx context.Context, since time.Time) ([]catalog.ItemRecord, error)
	FetchComponents(ctx context.Context, since time.Time) ([]catalog.ComponentRecord, error)
}

// Merger is the slice of the store the coordinator writes through.
type Merger interface {
	MergeAll(
		ctx context.Context,
		groups []model.GroupPatch,
		items []model.ItemPatch,
		components []model.ComponentPatch,
	) error
}

// Watermarks is the persisted sync bookkeeping the coordinator reads and
// advances. Reads and writes happen under the coordinator's single-flight
// lock, so concurrent passes cannot lose updates.
type Watermarks interface {
	LastFetched() time.Time
	UpdateLastFetched(t time.Time) error
}
