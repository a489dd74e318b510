package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/pantrypal/internal/model"
)

func setupListStore(t *testing.T) (*ListStore, *model.List) {
	t.Helper()
	db := setupTestDB(t)
	u := createTestUser(t, db, "alice@example.com")
	ls := NewListStore(db)
	l, err := ls.Create(u.ID, "Weekly")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return ls, l
}

func seedItems(t *testing.T, ls *ListStore, id int64, items ...model.ListItem) {
	t.Helper()
	_, err := ls.Mutate(id, func(existing []model.ListItem) ([]model.ListItem, error) {
		return append(existing, items...), nil
	})
	if err != nil {
		t.Fatalf("seed items: %v", err)
	}
}

func itemNames(items []model.ListItem) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}

func TestListCreate(t *testing.T) {
	_, l := setupListStore(t)

	if l.Name != "Weekly" {
		t.Errorf("name = %q, want %q", l.Name, "Weekly")
	}
	if l.Items == nil || len(l.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %v", l.Items)
	}
}

func TestListGetByIDNotFound(t *testing.T) {
	ls, _ := setupListStore(t)

	l, err := ls.GetByID(999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if l != nil {
		t.Error("expected nil for nonexistent list")
	}
}

func TestListMutateKeepsOrder(t *testing.T) {
	ls, l := setupListStore(t)

	for i, name := range []string{"Milk", "Eggs", "Bread"} {
		seedItems(t, ls, l.ID, model.ListItem{ID: string(rune('a' + i)), Name: name})
	}

	got, _ := ls.GetByID(l.ID)
	names := itemNames(got.Items)
	want := []string{"Milk", "Eggs", "Bread"}
	if len(names) != len(want) {
		t.Fatalf("items = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("item[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListMutateMissing(t *testing.T) {
	ls, _ := setupListStore(t)

	called := false
	l, err := ls.Mutate(999, func(items []model.ListItem) ([]model.ListItem, error) {
		called = true
		return items, nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if l != nil || called {
		t.Error("expected nil list and no callback for a missing list")
	}
}

func TestListMutateErrorRollsBack(t *testing.T) {
	ls, l := setupListStore(t)
	seedItems(t, ls, l.ID, model.ListItem{ID: "1", Name: "Milk"})

	boom := errors.New("boom")
	_, err := ls.Mutate(l.ID, func(items []model.ListItem) ([]model.ListItem, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	got, _ := ls.GetByID(l.ID)
	if len(got.Items) != 1 {
		t.Errorf("expected list unchanged, got %v", itemNames(got.Items))
	}
}

func TestListItemOperations(t *testing.T) {
	ls, l := setupListStore(t)
	seedItems(t, ls, l.ID, model.ListItem{ID: "1", Name: "Milk"})
	seedItems(t, ls, l.ID, model.ListItem{ID: "2", Name: "Eggs"})

	got, found, err := ls.ToggleItem(l.ID, "1")
	if err != nil || !found {
		t.Fatalf("toggle: found=%v err=%v", found, err)
	}
	if !got.Items[0].Completed {
		t.Error("expected Milk to be completed")
	}

	got, found, err = ls.UpdateItem(l.ID, model.ListItem{ID: "2", Name: "Brown Eggs", Quantity: "12"})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	if got.Items[1].Name != "Brown Eggs" || got.Items[1].Quantity != "12" {
		t.Errorf("updated item = %+v", got.Items[1])
	}

	if _, found, _ := ls.UpdateItem(l.ID, model.ListItem{ID: "nope", Name: "X"}); found {
		t.Error("expected not found for unknown item")
	}

	got, _ = ls.SetAllCompleted(l.ID, true)
	for _, it := range got.Items {
		if !it.Completed {
			t.Errorf("%s should be completed", it.Name)
		}
	}

	got, found, _ = ls.RemoveItem(l.ID, "1")
	if !found || len(got.Items) != 1 || got.Items[0].ID != "2" {
		t.Errorf("after remove: found=%v items=%v", found, itemNames(got.Items))
	}

	got, _ = ls.Clear(l.ID)
	if len(got.Items) != 0 {
		t.Errorf("after clear: %v", itemNames(got.Items))
	}
}

func TestListRemoveCompletedKeepsUnchecked(t *testing.T) {
	ls, l := setupListStore(t)
	seedItems(t, ls, l.ID, model.ListItem{ID: "1", Name: "Milk", Completed: true})
	seedItems(t, ls, l.ID, model.ListItem{ID: "2", Name: "Eggs", Completed: true})
	seedItems(t, ls, l.ID, model.ListItem{ID: "3", Name: "Bread"})

	// Eggs was unchecked after the caller read the list.
	ls.ToggleItem(l.ID, "2")

	got, err := ls.RemoveCompleted(l.ID, []string{"1", "2"})
	if err != nil {
		t.Fatalf("remove completed: %v", err)
	}
	names := itemNames(got.Items)
	if len(names) != 2 || names[0] != "Eggs" || names[1] != "Bread" {
		t.Errorf("items = %v, want [Eggs Bread]", names)
	}
}

func TestListListByUserAndDelete(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	ls := NewListStore(db)

	a1, _ := ls.Create(alice.ID, "One")
	ls.Create(alice.ID, "Two")
	ls.Create(bob.ID, "Bob's")

	lists, err := ls.ListByUser(alice.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(lists) != 2 || lists[0].Name != "One" {
		t.Errorf("lists = %+v", lists)
	}

	if err := ls.Delete(a1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	lists, _ = ls.ListByUser(alice.ID)
	if len(lists) != 1 {
		t.Errorf("expected 1 list after delete, got %d", len(lists))
	}
}
