package grocery

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dukerupert/pantrypal/internal/model"
)

func TestGroupByCategory(t *testing.T) {
	items := []model.ListItem{
		{ID: "1", Name: "Milk", Category: "Dairy"},
		{ID: "2", Name: "Apples", Category: "Produce"},
		{ID: "3", Name: "Cheese", Category: "Dairy"},
		{ID: "4", Name: "Soap", Category: ""},
	}

	got := GroupListItems(items)
	want := []Group[model.ListItem]{
		{Category: "Dairy", Items: []model.ListItem{items[0], items[2]}},
		{Category: "Produce", Items: []model.ListItem{items[1]}},
		{Category: "", Items: []model.ListItem{items[3]}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupListItems mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	got := GroupPantryItems(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("GroupPantryItems(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestGroupByCategoryRegroupIsStable(t *testing.T) {
	items := []model.PantryItem{
		{ID: 1, Name: "Rice", Category: "Pantry"},
		{ID: 2, Name: "Milk", Category: "Dairy"},
		{ID: 3, Name: "Flour", Category: "Pantry"},
	}
	first := GroupPantryItems(items)

	var flat []model.PantryItem
	for _, g := range first {
		flat = append(flat, g.Items...)
	}
	second := GroupPantryItems(flat)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("regrouping changed result (-first +second):\n%s", diff)
	}
}
