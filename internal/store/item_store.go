package store

import (
	"context"
	"fmt"

	"github.com/nvo/collection-tracker/internal/model"
)

// Item list queries join the owning group so results are ordered by group
// release date first (newest release first) and position within the group
// second, with the item id as a deterministic tiebreak.
const itemListSelect = `
	SELECT items.*
	FROM items
		INNER JOIN groups ON groups.id = items.group_id
	WHERE %s
	ORDER BY groups.release_date DESC,
		items.position ASC,
		items.id ASC`

func (s *SQLiteStore) selectItems(ctx context.Context, where string, args ...interface{}) ([]model.Item, error) {
	items := []model.Item{}
	err := s.db.SelectContext(ctx, &items, fmt.Sprintf(itemListSelect, where), args...)
	if err != nil {
		return nil, fmt.Errorf("querying items (%s): %w", where, err)
	}
	return items, nil
}

// GetVisibleItems returns all items that are not hidden.
func (s *SQLiteStore) GetVisibleItems(ctx context.Context) ([]model.Item, error) {
	return s.selectItems(ctx, "items.hidden = 0")
}

// GetFavoriteItems returns all visible items marked as favorite. The
// visibility check is redundant (hiding an item resets its favorite flag)
// but states the rule the query relies on.
func (s *SQLiteStore) GetFavoriteItems(ctx context.Context) ([]model.Item, error) {
	return s.selectItems(ctx, "items.hidden = 0 AND items.favorite = 1")
}

// GetCollectedItems returns all visible, collected items. Collected and
// wishlisted are mutually exclusive; the extra predicate documents that.
func (s *SQLiteStore) GetCollectedItems(ctx context.Context) ([]model.Item, error) {
	return s.selectItems(ctx, "items.hidden = 0 AND items.collected = 1 AND items.wishlisted = 0")
}

// GetWishlistedItems returns all visible, wishlisted items.
func (s *SQLiteStore) GetWishlistedItems(ctx context.Context) ([]model.Item, error) {
	return s.selectItems(ctx, "items.hidden = 0 AND items.wishlisted = 1 AND items.collected = 0")
}

// GetUncollectedItems returns all visible items not yet collected.
func (s *SQLiteStore) GetUncollectedItems(ctx context.Context) ([]model.Item, error) {
	return s.selectItems(ctx, "items.hidden = 0 AND items.collected = 0")
}

// GetItem returns the detail projection of a single item joined with its
// group name.
func (s *SQLiteStore) GetItem(ctx context.Context, itemID int) (*model.ItemWithGroupName, error) {
	var item model.ItemWithGroupName
	err := s.db.GetContext(ctx, &item, `
		SELECT items.id, items.name, items.image_url, items.collected,
			items.wishlisted, items.favorite, groups.name AS group_name
		FROM items
			INNER JOIN groups ON groups.id = items.group_id
		WHERE items.id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("getting item %d: %w", itemID, err)
	}
	return &item, nil
}

// GetAllItemsFromGroup returns the hidden-state projection of every item in
// a group, hidden ones included.
func (s *SQLiteStore) GetAllItemsFromGroup(ctx context.Context, groupID int) ([]model.ItemHiddenState, error) {
	states := []model.ItemHiddenState{}
	err := s.db.SelectContext(ctx, &states, `
		SELECT id, name, hidden
		FROM items
		WHERE group_id = ?
		ORDER BY position`, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying items of group %d: %w", groupID, err)
	}
	return states, nil
}

// GetVisibleItemsFromGroup returns the visible items of one group in
// position order.
func (s *SQLiteStore) GetVisibleItemsFromGroup(ctx context.Context, groupID int) ([]model.Item, error) {
	items := []model.Item{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT *
		FROM items
		WHERE hidden = 0 AND group_id = ?
		ORDER BY position`, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying visible items of group %d: %w", groupID, err)
	}
	return items, nil
}

// SearchItems returns visible items whose name contains the query,
// case-insensitively, joined with their group name.
func (s *SQLiteStore) SearchItems(ctx context.Context, query string) ([]model.ItemWithGroupName, error) {
	items := []model.ItemWithGroupName{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT items.id, items.name, items.image_url, items.collected,
			items.wishlisted, items.favorite, groups.name AS group_name
		FROM items
			INNER JOIN groups ON groups.id = items.group_id
		WHERE items.hidden = 0
			AND items.name LIKE '%' || ? || '%'
		ORDER BY groups.release_date ASC,
			items.position ASC,
			items.id ASC`, query)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return items, nil
}

// toggleExec runs one toggle statement, logs the zero-rows anomaly instead
// of failing (the row may have been removed concurrently and the UI already
// proceeded optimistically), and wakes subscriptions.
func (s *SQLiteStore) toggleExec(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Printf("%s: no row updated", op)
		return nil
	}
	s.watcher.notify()
	return nil
}

// ToggleItemCollected flips an item's collected flag and clears wishlisted,
// keeping the two mutually exclusive. The triggers cascade the change to the
// group counter and the item's components.
func (s *SQLiteStore) ToggleItemCollected(ctx context.Context, itemID int) error {
	return s.toggleExec(ctx, fmt.Sprintf("ToggleItemCollected(%d)", itemID), `
		UPDATE items
		SET collected = CASE
				WHEN collected = 0 THEN 1
				ELSE 0
			END,
			wishlisted = 0
		WHERE id = ?`, itemID)
}

// ToggleItemWishlisted flips an item's wishlisted flag and clears collected.
func (s *SQLiteStore) ToggleItemWishlisted(ctx context.Context, itemID int) error {
	return s.toggleExec(ctx, fmt.Sprintf("ToggleItemWishlisted(%d)", itemID), `
		UPDATE items
		SET wishlisted = CASE
				WHEN wishlisted = 0 THEN 1
				ELSE 0
			END,
			collected = 0
		WHERE id = ?`, itemID)
}

// ToggleItemFavorite flips an item's favorite flag.
func (s *SQLiteStore) ToggleItemFavorite(ctx context.Context, itemID int) error {
	return s.toggleExec(ctx, fmt.Sprintf("ToggleItemFavorite(%d)", itemID), `
		UPDATE items
		SET favorite = CASE
				WHEN favorite = 0 THEN 1
				ELSE 0
			END
		WHERE id = ?`, itemID)
}

// ToggleItemHidden flips an item's hidden flag. Hiding resets collected,
// wishlisted, favorite, the component counter, and the components' collected
// flags via the triggers.
func (s *SQLiteStore) ToggleItemHidden(ctx context.Context, itemID int) error {
	return s.toggleExec(ctx, fmt.Sprintf("ToggleItemHidden(%d)", itemID), `
		UPDATE items
		SET hidden = CASE
				WHEN hidden = 0 THEN 1
				ELSE 0
			END
		WHERE id = ?`, itemID)
}

// HideGroup hides every currently visible item of a group.
func (s *SQLiteStore) HideGroup(ctx context.Context, groupID int) error {
	return s.toggleExec(ctx, fmt.Sprintf("HideGroup(%d)", groupID), `
		UPDATE items
		SET hidden = 1
		WHERE group_id = ? AND hidden = 0`, groupID)
}

// UnhideGroup unhides every item of a group.
func (s *SQLiteStore) UnhideGroup(ctx context.Context, groupID int) error {
	return s.toggleExec(ctx, fmt.Sprintf("UnhideGroup(%d)", groupID), `
		UPDATE items
		SET hidden = 0
		WHERE group_id = ? AND hidden = 1`, groupID)
}
