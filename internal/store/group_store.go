package store

import (
	"context"
	"fmt"

	"github.com/nvo/collection-tracker/internal/model"
)

// A group is visible while at least one of its items is not hidden. All list
// queries order by release date descending (newest release first) with the
// group id as a deterministic tiebreak.

// GetVisibleGroups returns all groups that still have at least one
// visible item.
func (s *SQLiteStore) GetVisibleGroups(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}
	err := s.db.SelectContext(ctx, &groups, `
		SELECT *
		FROM groups
		WHERE num_hidden != num_items
		ORDER BY release_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying visible groups: %w", err)
	}
	return groups, nil
}

// GetFavoriteGroups returns all visible groups the user marked as favorite.
func (s *SQLiteStore) GetFavoriteGroups(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}
	err := s.db.SelectContext(ctx, &groups, `
		SELECT *
		FROM groups
		WHERE num_hidden != num_items AND favorite = 1
		ORDER BY release_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying favorite groups: %w", err)
	}
	return groups, nil
}

// GetCompletedGroups returns all visible groups whose every non-hidden item
// has been collected.
func (s *SQLiteStore) GetCompletedGroups(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}
	err := s.db.SelectContext(ctx, &groups, `
		SELECT *
		FROM groups
		WHERE num_hidden != num_items
			AND num_collected = (num_items - num_hidden)
		ORDER BY release_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying completed groups: %w", err)
	}
	return groups, nil
}

// GetUncompletedGroups returns all visible groups that still have at least
// one uncollected, non-hidden item.
func (s *SQLiteStore) GetUncompletedGroups(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}
	err := s.db.SelectContext(ctx, &groups, `
		SELECT *
		FROM groups
		WHERE num_hidden != num_items
			AND num_collected != (num_items - num_hidden)
		ORDER BY release_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying uncompleted groups: %w", err)
	}
	return groups, nil
}

// SearchGroups returns visible groups whose name contains the query,
// case-insensitively.
func (s *SQLiteStore) SearchGroups(ctx context.Context, query string) ([]model.Group, error) {
	groups := []model.Group{}
	err := s.db.SelectContext(ctx, &groups, `
		SELECT *
		FROM groups
		WHERE num_hidden != num_items
			AND name LIKE '%' || ? || '%'
		ORDER BY release_date ASC, id ASC`, query)
	if err != nil {
		return nil, fmt.Errorf("searching groups: %w", err)
	}
	return groups, nil
}

// GetGroupImageURL returns the box-art URL for one group.
func (s *SQLiteStore) GetGroupImageURL(ctx context.Context, groupID int) (string, error) {
	var imageURL string
	err := s.db.GetContext(ctx, &imageURL,
		"SELECT image_url FROM groups WHERE id = ?", groupID)
	if err != nil {
		return "", fmt.Errorf("getting image url for group %d: %w", groupID, err)
	}
	return imageURL, nil
}

// GetHiddenStateOfAllGroups returns the hidden-state projection of every
// group, including fully hidden ones.
func (s *SQLiteStore) GetHiddenStateOfAllGroups(ctx context.Context) ([]model.GroupHiddenState, error) {
	states := []model.GroupHiddenState{}
	err := s.db.SelectContext(ctx, &states, `
		SELECT id, name, num_items, num_hidden
		FROM groups
		ORDER BY release_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying hidden state of groups: %w", err)
	}
	return states, nil
}

// GetIDAndNameOfAllGroups returns a one-time snapshot of every group's id
// and name.
func (s *SQLiteStore) GetIDAndNameOfAllGroups(ctx context.Context) ([]model.GroupIDAndName, error) {
	rows := []model.GroupIDAndName{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name
		FROM groups
		ORDER BY release_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying group ids and names: %w", err)
	}
	return rows, nil
}

// SetGroupFavorite sets the favorite flag on one group. A missing group is
// logged as a non-fatal anomaly.
func (s *SQLiteStore) SetGroupFavorite(ctx context.Context, groupID int, favorite bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET favorite = ? WHERE id = ?",
		boolToInt(favorite), groupID)
	if err != nil {
		return fmt.Errorf("setting favorite on group %d: %w", groupID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Printf("SetGroupFavorite: no row updated for group %d", groupID)
		return nil
	}
	s.watcher.notify()
	return nil
}
