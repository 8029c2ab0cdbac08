package model

// UnknownComponentCount is the sentinel stored in Item.ComponentCount while
// the catalog has not yet delivered the item's component inventory.
const UnknownComponentCount = -1

// Item is a single collectible unit within a Group.
//
// Collected and Wishlisted are mutually exclusive; hiding an item resets
// collected, wishlisted, favorite and the component counter. Both rules are
// enforced by the store (toggle statements plus triggers), so an Item read
// back from the store always satisfies them.
type Item struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ImageURL string `json:"image_url" db:"image_url"`

	// Position orders the item within its group.
	Position int `json:"position" db:"position"`

	// GroupID references the owning group (cascade on delete/update).
	GroupID int `json:"group_id" db:"group_id"`

	Collected  bool `json:"collected" db:"collected"`
	Wishlisted bool `json:"wishlisted" db:"wishlisted"`
	Favorite   bool `json:"favorite" db:"favorite"`
	Hidden     bool `json:"hidden" db:"hidden"`

	// NumCollectedComponents counts this item's components currently
	// collected. Maintained by the store's triggers.
	NumCollectedComponents int `json:"num_collected_components" db:"num_collected_components"`

	// ComponentCount is the item's total component count, or
	// UnknownComponentCount until the catalog has delivered it.
	ComponentCount int `json:"component_count" db:"component_count"`
}

// ItemPatch carries the columns the catalog service is allowed to change.
type ItemPatch struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	ImageURL       string `json:"image_url" db:"image_url"`
	Position       int    `json:"position" db:"position"`
	GroupID        int    `json:"group_id" db:"group_id"`
	ComponentCount int    `json:"component_count" db:"component_count"`
}

// ItemWithGroupName is the detail-view projection of an item joined with
// its owning group's name.
type ItemWithGroupName struct {
	ID         int    `db:"id"`
	Name       string `db:"name"`
	ImageURL   string `db:"image_url"`
	Collected  bool   `db:"collected"`
	Wishlisted bool   `db:"wishlisted"`
	Favorite   bool   `db:"favorite"`
	GroupName  string `db:"group_name"`
}

// ItemHiddenState is the projection used by the hide/unhide screens.
type ItemHiddenState struct {
	ID     int    `db:"id"`
	Name   string `db:"name"`
	Hidden bool   `db:"hidden"`
}
