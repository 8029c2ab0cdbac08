package model

// Group is a themed release containing a fixed number of collectible items.
type Group struct {
	// ID is the catalog-assigned identifier for this group.
	ID int `json:"id" db:"id"`

	// Name is the display name of the release.
	Name string `json:"name" db:"name"`

	// ImageURL points at the group's box art. Unique across all groups.
	ImageURL string `json:"image_url" db:"image_url"`

	// NumItems is the total number of items in the release.
	NumItems int `json:"num_items" db:"num_items"`

	// ReleaseDate orders groups for display (newest first).
	ReleaseDate string `json:"release_date" db:"release_date"`

	// Favorite is a user-set flag.
	Favorite bool `json:"favorite" db:"favorite"`

	// NumCollected counts this group's items currently marked collected.
	// Maintained by the store's triggers; never written directly.
	NumCollected int `json:"num_collected" db:"num_collected"`

	// NumHidden counts this group's items currently hidden.
	// Maintained by the store's triggers; never written directly.
	NumHidden int `json:"num_hidden" db:"num_hidden"`
}

// GroupPatch carries the columns the catalog service is allowed to change.
// Upserting a patch never touches user flags or the maintained counters.
type GroupPatch struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	ImageURL    string `json:"image_url" db:"image_url"`
	NumItems    int    `json:"num_items" db:"num_items"`
	ReleaseDate string `json:"release_date" db:"release_date"`
}

// GroupHiddenState is the projection used by the hide/unhide screens:
// just enough to tell whether a whole group is hidden.
type GroupHiddenState struct {
	ID        int    `db:"id"`
	Name      string `db:"name"`
	NumItems  int    `db:"num_items"`
	NumHidden int    `db:"num_hidden"`
}

// GroupIDAndName is a one-shot lookup projection.
type GroupIDAndName struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}
