package store

import (
	"context"
	"fmt"

	"github.com/nvo/collection-tracker/internal/model"
)

// GetItemComponents returns all components belonging to one item.
func (s *SQLiteStore) GetItemComponents(ctx context.Context, itemID int) ([]model.ItemComponent, error) {
	components := []model.ItemComponent{}
	err := s.db.SelectContext(ctx, &components, `
		SELECT *
		FROM components
		WHERE item_id = ?
		ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying components of item %d: %w", itemID, err)
	}
	return components, nil
}

// ToggleComponentCollected flips one component's collected flag and, in the
// same transaction, realigns the owning item's collected state: the item is
// collected exactly when every one of its components is. The component
// trigger keeps the item's counter current, so the realignment statement
// reads an up-to-date count.
//
// Realigning an already-aligned item changes no column value, so the item
// triggers that mirror collected-state changes back onto the components do
// not fire again; the cascade terminates after one round.
func (s *SQLiteStore) ToggleComponentCollected(ctx context.Context, componentID, itemID int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE components
		SET collected = CASE
				WHEN collected = 0 THEN 1
				ELSE 0
			END
		WHERE id = ?`, componentID)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("ToggleComponentCollected(%d)", componentID), err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// The component may have been removed concurrently; the caller
		// already proceeded optimistically, so this is not an error.
		s.logger.Printf("ToggleComponentCollected: no component updated for id %d", componentID)
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE items
		SET collected = CASE
				WHEN num_collected_components = component_count THEN 1
				ELSE 0
			END,
			wishlisted = CASE
				WHEN num_collected_components = component_count THEN 0
				ELSE wishlisted
			END
		WHERE id = ?`, itemID)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("ToggleComponentCollected(%d): realign item %d", componentID, itemID), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing component toggle: %w", err)
	}

	s.watcher.notify()
	return nil
}
