package store

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// openAtVersion creates a database file migrated only up to the given
// version, simulating an installation from before later releases.
func openAtVersion(t *testing.T, path string, version int) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}

	for _, m := range migrations {
		if m.version > version {
			break
		}
		if _, err := db.Exec(m.sql); err != nil {
			t.Fatalf("applying migration v%d: %v", m.version, err)
		}
	}
	return db
}

func triggerExists(t *testing.T, s *SQLiteStore, name string) bool {
	t.Helper()

	var count int
	err := s.db.Get(&count,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='trigger' AND name=?", name)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return count > 0
}

func TestMigrateFromVersion1PreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db := openAtVersion(t, path, 1)

	// User data created on the old schema.
	_, err := db.Exec(`
		INSERT INTO groups (id, name, image_url, num_items, release_date)
		VALUES (45, 'Haunted Manor', 'https://img.example.com/groups/45.png', 2, '2024-05-01')`)
	if err != nil {
		t.Fatalf("seeding legacy group: %v", err)
	}
	_, err = db.Exec(`
		INSERT INTO items (id, name, image_url, position, group_id)
		VALUES
			(530, 'Ghost Butler', 'https://img.example.com/items/530.png', 1, 45),
			(531, 'Candle Maid', 'https://img.example.com/items/531.png', 2, 45)`)
	if err != nil {
		t.Fatalf("seeding legacy items: %v", err)
	}
	// Collect one item through the normal write path so the trigger
	// maintains the group counter, as it would have in the old release.
	if _, err := db.Exec("UPDATE items SET collected = 1 WHERE id = 530"); err != nil {
		t.Fatalf("collecting legacy item: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing legacy db: %v", err)
	}

	s, err := NewSQLiteStore(path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 4 {
		t.Fatalf("schema version = %d, want 4", version)
	}

	// The legacy rows survive with the new columns at their defaults.
	var item struct {
		Name                   string `db:"name"`
		Collected              bool   `db:"collected"`
		NumCollectedComponents int    `db:"num_collected_components"`
		ComponentCount         int    `db:"component_count"`
	}
	err = s.db.Get(&item, `
		SELECT name, collected, num_collected_components, component_count
		FROM items WHERE id = 530`)
	if err != nil {
		t.Fatalf("reading migrated item: %v", err)
	}
	if item.Name != "Ghost Butler" || !item.Collected {
		t.Errorf("migrated item = %+v, want collected Ghost Butler", item)
	}
	if item.NumCollectedComponents != 0 || item.ComponentCount != -1 {
		t.Errorf("component columns = (%d, %d), want (0, -1)",
			item.NumCollectedComponents, item.ComponentCount)
	}

	var numCollected int
	if err := s.db.Get(&numCollected, "SELECT num_collected FROM groups WHERE id = 45"); err != nil {
		t.Fatalf("reading group counter: %v", err)
	}
	if numCollected != 1 {
		t.Errorf("group 45 num_collected = %d, want 1", numCollected)
	}

	// The seed migrations that were skipped on the old install applied.
	for _, groupID := range []int{46, 47} {
		var count int
		if err := s.db.Get(&count, "SELECT COUNT(*) FROM groups WHERE id = ?", groupID); err != nil {
			t.Fatalf("counting group %d: %v", groupID, err)
		}
		if count != 1 {
			t.Errorf("group %d missing after migration", groupID)
		}
	}

	// The hidden-item trigger was replaced by its component-aware version.
	if triggerExists(t, s, "trg_item_hidden_resets_item_state") {
		t.Error("pre-component hidden trigger still present")
	}
	for _, name := range []string{
		"trg_item_hidden_resets_item_and_component_state",
		"trg_component_collected_updates_item_count",
		"trg_item_uncollected_resets_components",
		"trg_item_collected_sets_components",
	} {
		if !triggerExists(t, s, name) {
			t.Errorf("trigger %s missing after migration", name)
		}
	}
}

func TestMigrateIsIdempotentAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	for i := 0; i < 2; i++ {
		s, err := NewSQLiteStore(path, log.New(io.Discard, "", 0))
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}

		version, err := s.SchemaVersion(context.Background())
		if err != nil {
			t.Fatalf("open %d: reading schema version: %v", i, err)
		}
		if version != 4 {
			t.Fatalf("open %d: schema version = %d, want 4", i, version)
		}

		// Seed rows must not be duplicated by a second pass.
		var items int
		if err := s.db.Get(&items, "SELECT COUNT(*) FROM items"); err != nil {
			t.Fatalf("open %d: counting items: %v", i, err)
		}
		if items != 24 {
			t.Fatalf("open %d: item count = %d, want 24", i, items)
		}

		if err := s.Close(); err != nil {
			t.Fatalf("open %d: closing: %v", i, err)
		}
	}
}

func TestMigrationVersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		if m.version != i+1 {
			t.Errorf("migrations[%d].version = %d, want %d", i, m.version, i+1)
		}
	}
}
