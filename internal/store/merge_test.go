package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/nvo/collection-tracker/internal/model"
	"github.com/nvo/collection-tracker/internal/store"
	"github.com/nvo/collection-tracker/tests/testutil"
)

func TestMergeAllIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	groups := []model.GroupPatch{{
		ID:          200,
		Name:        "Polar Expedition",
		ImageURL:    "https://img.example.com/groups/200.png",
		NumItems:    2,
		ReleaseDate: "2025-08-01",
	}}
	items := []model.ItemPatch{
		{
			ID: 700, Name: "Ice Core Driller",
			ImageURL: "https://img.example.com/items/700.png",
			Position: 1, GroupID: 200,
			ComponentCount: model.UnknownComponentCount,
		},
		{
			ID: 701, Name: "Sled Dog Handler",
			ImageURL: "https://img.example.com/items/701.png",
			Position: 2, GroupID: 200,
			ComponentCount: model.UnknownComponentCount,
		},
	}

	for i := 0; i < 2; i++ {
		if err := s.MergeAll(ctx, groups, items, nil); err != nil {
			t.Fatalf("merge %d: %v", i, err)
		}
	}

	visible, err := s.GetVisibleGroups(ctx)
	if err != nil {
		t.Fatalf("GetVisibleGroups: %v", err)
	}
	if len(visible) != 3 {
		t.Fatalf("groups after double merge = %d, want 3", len(visible))
	}

	groupItems, err := s.GetVisibleItemsFromGroup(ctx, 200)
	if err != nil {
		t.Fatalf("GetVisibleItemsFromGroup: %v", err)
	}
	if len(groupItems) != 2 {
		t.Fatalf("items after double merge = %d, want 2", len(groupItems))
	}
}

func TestMergePreservesUserState(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	group := model.GroupPatch{
		ID:          200,
		Name:        "Polar Expedition",
		ImageURL:    "https://img.example.com/groups/200.png",
		NumItems:    1,
		ReleaseDate: "2025-08-01",
	}
	item := model.ItemPatch{
		ID: 700, Name: "Ice Core Driller",
		ImageURL: "https://img.example.com/items/700.png",
		Position: 1, GroupID: 200,
		ComponentCount: model.UnknownComponentCount,
	}
	if err := s.MergeAll(ctx, []model.GroupPatch{group}, []model.ItemPatch{item}, nil); err != nil {
		t.Fatalf("initial merge: %v", err)
	}

	if err := s.ToggleItemCollected(ctx, 700); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if err := s.SetGroupFavorite(ctx, 200, true); err != nil {
		t.Fatalf("favorite group: %v", err)
	}

	// The catalog renames both rows; the user flags and the maintained
	// counters must survive the update.
	group.Name = "Polar Expedition II"
	item.Name = "Ice Core Driller Mk2"
	if err := s.MergeAll(ctx, []model.GroupPatch{group}, []model.ItemPatch{item}, nil); err != nil {
		t.Fatalf("update merge: %v", err)
	}

	visible, err := s.GetVisibleGroups(ctx)
	if err != nil {
		t.Fatalf("GetVisibleGroups: %v", err)
	}
	for _, g := range visible {
		if g.ID != 200 {
			continue
		}
		if g.Name != "Polar Expedition II" {
			t.Errorf("group name = %q, want the renamed value", g.Name)
		}
		if !g.Favorite {
			t.Error("group favorite flag lost in merge")
		}
		if g.NumCollected != 1 {
			t.Errorf("num_collected = %d after merge, want 1", g.NumCollected)
		}
	}

	groupItems, err := s.GetVisibleItemsFromGroup(ctx, 200)
	if err != nil {
		t.Fatalf("GetVisibleItemsFromGroup: %v", err)
	}
	if len(groupItems) != 1 {
		t.Fatalf("items = %d, want 1", len(groupItems))
	}
	if groupItems[0].Name != "Ice Core Driller Mk2" {
		t.Errorf("item name = %q, want the renamed value", groupItems[0].Name)
	}
	if !groupItems[0].Collected {
		t.Error("item collected flag lost in merge")
	}
}

func TestMergeMarksNewComponentsOfCollectedItems(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	group := model.GroupPatch{
		ID:          200,
		Name:        "Polar Expedition",
		ImageURL:    "https://img.example.com/groups/200.png",
		NumItems:    1,
		ReleaseDate: "2025-08-01",
	}
	item := model.ItemPatch{
		ID: 700, Name: "Ice Core Driller",
		ImageURL: "https://img.example.com/items/700.png",
		Position: 1, GroupID: 200,
		ComponentCount: 2,
	}
	if err := s.MergeAll(ctx, []model.GroupPatch{group}, []model.ItemPatch{item}, nil); err != nil {
		t.Fatalf("initial merge: %v", err)
	}
	if err := s.ToggleItemCollected(ctx, 700); err != nil {
		t.Fatalf("collect: %v", err)
	}

	// The component inventory arrives in a later pass. Parts of an
	// already-collected item must not show up as missing.
	components := []model.ComponentPatch{
		{
			ID: 9100, Name: "Drill Bit",
			ImageURL: "https://img.example.com/components/9100.png",
			PartURL:  "https://parts.example.com/9100",
			Quantity: 1, Category: model.ComponentCategoryPart, ItemID: 700,
		},
		{
			ID: 9101, Name: "Thermos",
			ImageURL: "https://img.example.com/components/9101.png",
			PartURL:  "https://parts.example.com/9101",
			Quantity: 1, Category: model.ComponentCategoryAccessory, ItemID: 700,
		},
	}
	if err := s.MergeAll(ctx, nil, nil, components); err != nil {
		t.Fatalf("component merge: %v", err)
	}

	got, err := s.GetItemComponents(ctx, 700)
	if err != nil {
		t.Fatalf("GetItemComponents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("components = %d, want 2", len(got))
	}
	for _, c := range got {
		if !c.Collected {
			t.Errorf("component %d not marked collected", c.ID)
		}
	}

	groupItems, err := s.GetVisibleItemsFromGroup(ctx, 200)
	if err != nil {
		t.Fatalf("GetVisibleItemsFromGroup: %v", err)
	}
	if groupItems[0].NumCollectedComponents != 2 {
		t.Errorf("counter = %d, want 2", groupItems[0].NumCollectedComponents)
	}
}

func TestMergeChunksLargeComponentBatches(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	const numComponents = 1500

	group := model.GroupPatch{
		ID:          200,
		Name:        "Polar Expedition",
		ImageURL:    "https://img.example.com/groups/200.png",
		NumItems:    1,
		ReleaseDate: "2025-08-01",
	}
	item := model.ItemPatch{
		ID: 700, Name: "Ice Core Driller",
		ImageURL: "https://img.example.com/items/700.png",
		Position: 1, GroupID: 200,
		ComponentCount: numComponents,
	}
	if err := s.MergeAll(ctx, []model.GroupPatch{group}, []model.ItemPatch{item}, nil); err != nil {
		t.Fatalf("initial merge: %v", err)
	}
	if err := s.ToggleItemCollected(ctx, 700); err != nil {
		t.Fatalf("collect: %v", err)
	}

	components := make([]model.ComponentPatch, 0, numComponents)
	for i := 0; i < numComponents; i++ {
		components = append(components, model.ComponentPatch{
			ID:       20000 + i,
			Name:     fmt.Sprintf("Part %d", i+1),
			ImageURL: fmt.Sprintf("https://img.example.com/components/%d.png", 20000+i),
			PartURL:  fmt.Sprintf("https://parts.example.com/%d", 20000+i),
			Quantity: 1,
			Category: model.ComponentCategoryPart,
			ItemID:   700,
		})
	}
	if err := s.MergeAll(ctx, nil, nil, components); err != nil {
		t.Fatalf("component merge: %v", err)
	}

	got, err := s.GetItemComponents(ctx, 700)
	if err != nil {
		t.Fatalf("GetItemComponents: %v", err)
	}
	if len(got) != numComponents {
		t.Fatalf("components = %d, want %d", len(got), numComponents)
	}
	for _, c := range got {
		if !c.Collected {
			t.Fatalf("component %d not marked collected", c.ID)
		}
	}
}

func TestMergeRejectsOrphanedChildren(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	orphan := []model.ItemPatch{{
		ID: 800, Name: "Stray",
		ImageURL: "https://img.example.com/items/800.png",
		Position: 1, GroupID: 9999,
		ComponentCount: model.UnknownComponentCount,
	}}

	err := s.MergeAll(ctx, nil, orphan, nil)
	if !store.IsIntegrityError(err) {
		t.Fatalf("merge error = %v, want an integrity error", err)
	}

	// The whole batch rolls back.
	items, err := s.GetVisibleItems(ctx)
	if err != nil {
		t.Fatalf("GetVisibleItems: %v", err)
	}
	for _, it := range items {
		if it.ID == 800 {
			t.Fatal("orphaned item persisted despite the failed merge")
		}
	}
}

func TestMergeRejectsDuplicateImageURLs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	groups := []model.GroupPatch{
		{
			ID: 200, Name: "Polar Expedition",
			ImageURL: "https://img.example.com/groups/dup.png",
			NumItems: 1, ReleaseDate: "2025-08-01",
		},
		{
			ID: 201, Name: "Polar Expedition Reprint",
			ImageURL: "https://img.example.com/groups/dup.png",
			NumItems: 1, ReleaseDate: "2025-08-02",
		},
	}

	err := s.MergeAll(ctx, groups, nil, nil)
	if !store.IsConstraintError(err) {
		t.Fatalf("merge error = %v, want a constraint error", err)
	}

	visible, err := s.GetVisibleGroups(ctx)
	if err != nil {
		t.Fatalf("GetVisibleGroups: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("groups after failed merge = %d, want the 2 seeded ones", len(visible))
	}
}
