package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nvo/collection-tracker/internal/model"
)

// sqliteBindLimit is SQLite's default ceiling on bound parameters in one
// statement. Identifier lists are chunked to stay below it.
const sqliteBindLimit = 999

// MergeAll reconciles a batch of incoming catalog records against the store
// in a single transaction. Groups are written before items and items before
// components, since children carry foreign keys to their parents; a batch
// that references a missing parent fails with an IntegrityError and nothing
// is kept.
//
// The upserts touch only the catalog-settable columns, so user flags and the
// trigger-maintained counters survive updates. After the component upsert,
// any incoming component whose owning item is already collected has its
// collected flag forced on, so newly discovered parts of an already-collected
// item do not show up as missing.
func (s *SQLiteStore) MergeAll(
	ctx context.Context,
	groups []model.GroupPatch,
	items []model.ItemPatch,
	components []model.ComponentPatch,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning merge transaction: %w", err)
	}
	defer tx.Rollback()

	if err := mergeGroups(ctx, tx, groups); err != nil {
		return err
	}
	if err := mergeItems(ctx, tx, items); err != nil {
		return err
	}
	if err := mergeComponents(ctx, tx, components); err != nil {
		return err
	}
	if err := applyCollectedStatusToComponents(ctx, tx, components); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing merge: %w", err)
	}

	s.watcher.notify()
	return nil
}

func mergeGroups(ctx context.Context, tx *sqlx.Tx, groups []model.GroupPatch) error {
	if len(groups) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO groups (id, name, image_url, num_items, release_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image_url = excluded.image_url,
			num_items = excluded.num_items,
			release_date = excluded.release_date`)
	if err != nil {
		return fmt.Errorf("preparing group upsert: %w", err)
	}
	defer stmt.Close()

	for _, g := range groups {
		_, err := stmt.ExecContext(ctx, g.ID, g.Name, g.ImageURL, g.NumItems, g.ReleaseDate)
		if err != nil {
			return classifyWriteError(fmt.Sprintf("merge group %d", g.ID), err)
		}
	}
	return nil
}

func mergeItems(ctx context.Context, tx *sqlx.Tx, items []model.ItemPatch) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO items (id, name, image_url, position, group_id, component_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image_url = excluded.image_url,
			position = excluded.position,
			group_id = excluded.group_id,
			component_count = excluded.component_count`)
	if err != nil {
		return fmt.Errorf("preparing item upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		_, err := stmt.ExecContext(ctx,
			it.ID, it.Name, it.ImageURL, it.Position, it.GroupID, it.ComponentCount)
		if err != nil {
			return classifyWriteError(fmt.Sprintf("merge item %d", it.ID), err)
		}
	}
	return nil
}

func mergeComponents(ctx context.Context, tx *sqlx.Tx, components []model.ComponentPatch) error {
	if len(components) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO components (id, name, image_url, part_url, quantity, category, item_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image_url = excluded.image_url,
			part_url = excluded.part_url,
			quantity = excluded.quantity,
			category = excluded.category,
			item_id = excluded.item_id`)
	if err != nil {
		return fmt.Errorf("preparing component upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range components {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.Name, c.ImageURL, c.PartURL, c.Quantity, c.Category, c.ItemID)
		if err != nil {
			return classifyWriteError(fmt.Sprintf("merge component %d", c.ID), err)
		}
	}
	return nil
}

// applyCollectedStatusToComponents marks the incoming components of
// already-collected items as collected. The id list is chunked so one
// statement never exceeds SQLite's bound-parameter limit.
func applyCollectedStatusToComponents(ctx context.Context, tx *sqlx.Tx, components []model.ComponentPatch) error {
	if len(components) == 0 {
		return nil
	}

	ids := make([]int, 0, len(components))
	for _, c := range components {
		ids = append(ids, c.ID)
	}

	for start := 0; start < len(ids); start += sqliteBindLimit {
		end := start + sqliteBindLimit
		if end > len(ids) {
			end = len(ids)
		}

		query, args, err := sqlx.In(`
			UPDATE components
			SET collected = 1
			WHERE id IN (?)
				AND item_id IN (
					SELECT id FROM items WHERE collected = 1
				)`, ids[start:end])
		if err != nil {
			return fmt.Errorf("building collected-status update: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyWriteError("apply collected status to components", err)
		}
	}
	return nil
}
