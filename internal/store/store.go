package store

import (
	"context"

	"github.com/nvo/collection-tracker/internal/model"
)

// Store defines the persistence interface for groups, items, and their
// components. Mutating operations run inside a single transaction; the
// aggregate counters (group collected/hidden counts, item component counts)
// are maintained by the store itself and must never be written by callers.
type Store interface {
	// === Groups ===

	GetVisibleGroups(ctx context.Context) ([]model.Group, error)
	GetFavoriteGroups(ctx context.Context) ([]model.Group, error)
	GetCompletedGroups(ctx context.Context) ([]model.Group, error)
	GetUncompletedGroups(ctx context.Context) ([]model.Group, error)
	SearchGroups(ctx context.Context, query string) ([]model.Group, error)
	GetGroupImageURL(ctx context.Context, groupID int) (string, error)
	GetHiddenStateOfAllGroups(ctx context.Context) ([]model.GroupHiddenState, error)
	GetIDAndNameOfAllGroups(ctx context.Context) ([]model.GroupIDAndName, error)
	SetGroupFavorite(ctx context.Context, groupID int, favorite bool) error

	// === Items ===

	GetVisibleItems(ctx context.Context) ([]model.Item, error)
	GetFavoriteItems(ctx context.Context) ([]model.Item, error)
	GetCollectedItems(ctx context.Context) ([]model.Item, error)
	GetWishlistedItems(ctx context.Context) ([]model.Item, error)
	GetUncollectedItems(ctx context.Context) ([]model.Item, error)
	GetItem(ctx context.Context, itemID int) (*model.ItemWithGroupName, error)
	GetAllItemsFromGroup(ctx context.Context, groupID int) ([]model.ItemHiddenState, error)
	GetVisibleItemsFromGroup(ctx context.Context, groupID int) ([]model.Item, error)
	SearchItems(ctx context.Context, query string) ([]model.ItemWithGroupName, error)

	// Toggles flip one boolean and let the triggers restore the
	// invariants. A toggle that matches no row is logged, not an error.
	ToggleItemCollected(ctx context.Context, itemID int) error
	ToggleItemWishlisted(ctx context.Context, itemID int) error
	ToggleItemFavorite(ctx context.Context, itemID int) error
	ToggleItemHidden(ctx context.Context, itemID int) error
	HideGroup(ctx context.Context, groupID int) error
	UnhideGroup(ctx context.Context, groupID int) error

	// === Components ===

	GetItemComponents(ctx context.Context, itemID int) ([]model.ItemComponent, error)
	ToggleComponentCollected(ctx context.Context, componentID, itemID int) error

	// === Merge (sync path only) ===

	MergeAll(
		ctx context.Context,
		groups []model.GroupPatch,
		items []model.ItemPatch,
		components []model.ComponentPatch,
	) error

	// === Subscriptions ===

	WatchVisibleGroups(ctx context.Context) <-chan []model.Group
	WatchVisibleItems(ctx context.Context) <-chan []model.Item
	WatchItemComponents(ctx context.Context, itemID int) <-chan []model.ItemComponent

	HasAnyGroups(ctx context.Context) (bool, error)
	Close() error
}
