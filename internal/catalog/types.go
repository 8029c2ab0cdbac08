package catalog

import "github.com/nvo/collection-tracker/internal/model"

// The catalog endpoints return JSON arrays of partial records carrying only
// the fields the service owns. They map onto the store's patch types so a
// merge can never clobber user flags or trigger-maintained counters.

// GroupRecord is one element of the /groups response.
type GroupRecord struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	NumItems    int    `json:"num_items"`
	ReleaseDate string `json:"release_date"`
}

// ToPatch converts the record to a store patch.
func (r GroupRecord) ToPatch() model.GroupPatch {
	return model.GroupPatch{
		ID:          r.ID,
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		NumItems:    r.NumItems,
		ReleaseDate: r.ReleaseDate,
	}
}

// ItemRecord is one element of the /items response.
type ItemRecord struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	Position       int    `json:"position"`
	GroupID        int    `json:"group_id"`
	ComponentCount int    `json:"component_count"`
}

// ToPatch converts the record to a store patch.
func (r ItemRecord) ToPatch() model.ItemPatch {
	return model.ItemPatch{
		ID:             r.ID,
		Name:           r.Name,
		ImageURL:       r.ImageURL,
		Position:       r.Position,
		GroupID:        r.GroupID,
		ComponentCount: r.ComponentCount,
	}
}

// ComponentRecord is one element of the /item-components response. The
// service includes provenance fields (set number, upstream id) that the
// local store does not keep.
type ComponentRecord struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
	PartURL    string `json:"part_url"`
	ItemID     int    `json:"item_id"`
	Quantity   int    `json:"quantity"`
	Category   string `json:"category"`
	SetNum     string `json:"set_num"`
	UpstreamID int    `json:"upstream_id"`
}

// ToPatch converts the record to a store patch.
func (r ComponentRecord) ToPatch() model.ComponentPatch {
	return model.ComponentPatch{
		ID:       r.ID,
		Name:     r.Name,
		ImageURL: r.ImageURL,
		PartURL:  r.PartURL,
		Quantity: r.Quantity,
		Category: r.Category,
		ItemID:   r.ItemID,
	}
}

// GroupPatches maps a batch of records to store patches.
func GroupPatches(records []GroupRecord) []model.GroupPatch {
	patches := make([]model.GroupPatch, 0, len(records))
	for _, r := range records {
		patches = append(patches, r.ToPatch())
	}
	return patches
}

// ItemPatches maps a batch of records to store patches.
func ItemPatches(records []ItemRecord) []model.ItemPatch {
	patches := make([]model.ItemPatch, 0, len(records))
	for _, r := range records {
		patches = append(patches, r.ToPatch())
	}
	return patches
}

// ComponentPatches maps a batch of records to store patches.
func ComponentPatches(records []ComponentRecord) []model.ComponentPatch {
	patches := make([]model.ComponentPatch, 0, len(records))
	for _, r := range records {
		patches = append(patches, r.ToPatch())
	}
	return patches
}
