package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. Each migration's
// version must be sequential starting from 1. A database at version n has
// every migration up to and including n applied, so all upgrade paths end at
// the same version-4 layout.
//
// SQLite does not support altering a trigger, so the version-4 rework of the
// hidden-item trigger drops the old trigger and creates its replacement.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
	id           INTEGER PRIMARY KEY,
	name         TEXT NOT NULL,
	image_url    TEXT NOT NULL,
	num_items    INTEGER NOT NULL,
	release_date TEXT NOT NULL,
	favorite     INTEGER NOT NULL DEFAULT 0 CHECK(favorite IN (0, 1)),
	num_collected INTEGER NOT NULL DEFAULT 0,
	num_hidden   INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_groups_image_url ON groups(image_url);

CREATE TABLE IF NOT EXISTS items (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	image_url  TEXT NOT NULL,
	position   INTEGER NOT NULL,
	group_id   INTEGER NOT NULL
	           REFERENCES groups(id) ON UPDATE CASCADE ON DELETE CASCADE,
	collected  INTEGER NOT NULL DEFAULT 0 CHECK(collected IN (0, 1)),
	wishlisted INTEGER NOT NULL DEFAULT 0 CHECK(wishlisted IN (0, 1)),
	favorite   INTEGER NOT NULL DEFAULT 0 CHECK(favorite IN (0, 1)),
	hidden     INTEGER NOT NULL DEFAULT 0 CHECK(hidden IN (0, 1))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_image_url ON items(image_url);
CREATE INDEX IF NOT EXISTS idx_items_group_id ON items(group_id);

CREATE TRIGGER IF NOT EXISTS trg_item_hidden_resets_item_state
	AFTER UPDATE ON items
	WHEN OLD.hidden != NEW.hidden
		AND NEW.hidden = 1
BEGIN
	UPDATE groups
	SET num_hidden = num_hidden + 1
	WHERE id = NEW.group_id;

	UPDATE items
	SET collected = 0,
		wishlisted = 0,
		favorite = 0
	WHERE id = NEW.id;
END;

CREATE TRIGGER IF NOT EXISTS trg_item_unhidden_decrements_group_hidden
	AFTER UPDATE ON items
	WHEN OLD.hidden != NEW.hidden
		AND NEW.hidden = 0
BEGIN
	UPDATE groups
	SET num_hidden = num_hidden - 1
	WHERE id = NEW.group_id;
END;

CREATE TRIGGER IF NOT EXISTS trg_item_collected_updates_group_count
	AFTER UPDATE ON items
	WHEN OLD.collected != NEW.collected
BEGIN
	UPDATE groups
	SET num_collected =
		CASE NEW.collected
			WHEN 1 THEN num_collected + 1
			ELSE num_collected - 1
		END
	WHERE id = NEW.group_id;
END;

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
INSERT INTO groups (id, name, image_url, num_items, release_date)
VALUES (46, 'Mythic Realms', 'https://img.collection-tracker.dev/groups/46.png', 12, '2024-09-01');

INSERT INTO items (id, name, image_url, position, group_id)
VALUES
	(541, 'Dwarf Runesmith', 'https://img.collection-tracker.dev/items/541.png', 1, 46),
	(542, 'Swamp Witch', 'https://img.collection-tracker.dev/items/542.png', 2, 46),
	(543, 'Ember Sorcerer', 'https://img.collection-tracker.dev/items/543.png', 3, 46),
	(544, 'Oathbound Knight', 'https://img.collection-tracker.dev/items/544.png', 4, 46),
	(545, 'Hedge Druid', 'https://img.collection-tracker.dev/items/545.png', 5, 46),
	(546, 'Skyfeather Scout', 'https://img.collection-tracker.dev/items/546.png', 6, 46),
	(547, 'Cave Lurker', 'https://img.collection-tracker.dev/items/547.png', 7, 46),
	(548, 'Pale Count', 'https://img.collection-tracker.dev/items/548.png', 8, 46),
	(549, 'Wandering Minstrel', 'https://img.collection-tracker.dev/items/549.png', 9, 46),
	(550, 'Maze Warden', 'https://img.collection-tracker.dev/items/550.png', 10, 46),
	(551, 'Lich King', 'https://img.collection-tracker.dev/items/551.png', 11, 46),
	(552, 'Crown Enchantress', 'https://img.collection-tracker.dev/items/552.png', 12, 46);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
	{
		version: 3,
		sql: `
INSERT INTO groups (id, name, image_url, num_items, release_date)
VALUES (47, 'Deep Sea Explorers', 'https://img.collection-tracker.dev/groups/47.png', 12, '2025-01-01');

INSERT INTO items (id, name, image_url, position, group_id)
VALUES
	(553, 'Submarine Pilot', 'https://img.collection-tracker.dev/items/553.png', 1, 47),
	(554, 'Anglerfish Costume Fan', 'https://img.collection-tracker.dev/items/554.png', 2, 47),
	(555, 'Pearl Diver', 'https://img.collection-tracker.dev/items/555.png', 3, 47),
	(556, 'Kelp Forest Ranger', 'https://img.collection-tracker.dev/items/556.png', 4, 47),
	(557, 'Treasure Cartographer', 'https://img.collection-tracker.dev/items/557.png', 5, 47),
	(558, 'Moray Wrangler', 'https://img.collection-tracker.dev/items/558.png', 6, 47),
	(559, 'Tide Pool Scientist', 'https://img.collection-tracker.dev/items/559.png', 7, 47),
	(560, 'Deckhand Ghost', 'https://img.collection-tracker.dev/items/560.png', 8, 47),
	(561, 'Coral Gardener', 'https://img.collection-tracker.dev/items/561.png', 9, 47),
	(562, 'Harpoon Salvager', 'https://img.collection-tracker.dev/items/562.png', 10, 47),
	(563, 'Jellyfish Keeper', 'https://img.collection-tracker.dev/items/563.png', 11, 47),
	(564, 'Abyssal Monarch', 'https://img.collection-tracker.dev/items/564.png', 12, 47);

INSERT INTO schema_version (version) VALUES (3);
`,
	},
	{
		version: 4,
		sql: `
ALTER TABLE items ADD COLUMN num_collected_components INTEGER NOT NULL DEFAULT 0;
ALTER TABLE items ADD COLUMN component_count INTEGER NOT NULL DEFAULT -1;

CREATE TABLE IF NOT EXISTS components (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	image_url TEXT NOT NULL,
	part_url  TEXT NOT NULL,
	quantity  INTEGER NOT NULL,
	category  TEXT NOT NULL,
	item_id   INTEGER NOT NULL
	          REFERENCES items(id) ON UPDATE CASCADE ON DELETE CASCADE,
	collected INTEGER NOT NULL DEFAULT 0 CHECK(collected IN (0, 1))
);

CREATE INDEX IF NOT EXISTS idx_components_item_id ON components(item_id);

DROP TRIGGER trg_item_hidden_resets_item_state;

CREATE TRIGGER trg_item_hidden_resets_item_and_component_state
	AFTER UPDATE ON items
	WHEN OLD.hidden != NEW.hidden
		AND NEW.hidden = 1
BEGIN
	UPDATE groups
	SET num_hidden = num_hidden + 1
	WHERE id = NEW.group_id;

	UPDATE items
	SET collected = 0,
		wishlisted = 0,
		favorite = 0
	WHERE id = NEW.id;

	UPDATE components
	SET collected = 0
	WHERE item_id = NEW.id;
END;

CREATE TRIGGER trg_component_collected_updates_item_count
	AFTER UPDATE ON components
	WHEN OLD.collected != NEW.collected
BEGIN
	UPDATE items
	SET num_collected_components =
		CASE NEW.collected
			WHEN 1 THEN num_collected_components + 1
			ELSE num_collected_components - 1
		END
	WHERE id = NEW.item_id;
END;

CREATE TRIGGER trg_item_uncollected_resets_components
	AFTER UPDATE ON items
	WHEN OLD.collected != NEW.collected
		AND NEW.collected = 0
		AND NEW.num_collected_components = NEW.component_count
BEGIN
	UPDATE components
	SET collected = 0
	WHERE item_id = NEW.id;
END;

CREATE TRIGGER trg_item_collected_sets_components
	AFTER UPDATE ON items
	WHEN OLD.collected != NEW.collected
		AND NEW.collected = 1
BEGIN
	UPDATE components
	SET collected = 1
	WHERE item_id = NEW.id;
END;

INSERT INTO schema_version (version) VALUES (4);
`,
	},
}
