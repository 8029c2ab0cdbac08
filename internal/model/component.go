package model

// Component category tags. The column is freeform text but the catalog only
// ever emits these two values.
const (
	ComponentCategoryPart      = "Part"
	ComponentCategoryAccessory = "Accessory"
)

// ItemComponent is a sub-part or accessory belonging to one Item.
type ItemComponent struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ImageURL string `json:"image_url" db:"image_url"`

	// PartURL links to the component's reference page.
	PartURL string `json:"part_url" db:"part_url"`

	Quantity int    `json:"quantity" db:"quantity"`
	Category string `json:"category" db:"category"`

	// ItemID references the owning item (cascade on delete/update).
	ItemID int `json:"item_id" db:"item_id"`

	// Collected is independently toggleable, except that collecting or
	// fully un-collecting the parent item forces it to match.
	Collected bool `json:"collected" db:"collected"`
}

// ComponentPatch carries the columns the catalog service is allowed to change.
type ComponentPatch struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ImageURL string `json:"image_url" db:"image_url"`
	PartURL  string `json:"part_url" db:"part_url"`
	Quantity int    `json:"quantity" db:"quantity"`
	Category string `json:"category" db:"category"`
	ItemID   int    `json:"item_id" db:"item_id"`
}
