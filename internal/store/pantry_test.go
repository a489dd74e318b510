package store

import (
	"testing"

	"github.com/dukerupert/pantrypal/internal/model"
)

func TestPantryCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPantryStore(db)
	u := createTestUser(t, db, "alice@example.com")

	created, err := ps.Create(u.ID, model.PantryItem{
		Name: "Milk", Category: "Dairy", Quantity: "2", Unit: "l", Price: "2.99", ExpirationDate: "06/12/2024",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.UserID != u.ID {
		t.Fatalf("unexpected item: %+v", created)
	}

	got, err := ps.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Milk" || got.Price != "2.99" || got.ExpirationDate != "06/12/2024" {
		t.Errorf("got %+v", got)
	}

	missing, err := ps.GetByID(999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for nonexistent item")
	}
}

func TestPantryListByUser(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPantryStore(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	ps.Create(alice.ID, model.PantryItem{Name: "Milk"})
	ps.Create(alice.ID, model.PantryItem{Name: "Eggs"})
	ps.Create(bob.ID, model.PantryItem{Name: "Rice"})

	items, err := ps.ListByUser(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Milk" || items[1].Name != "Eggs" {
		t.Errorf("items = %+v", items)
	}

	bobs, _ := ps.ListByUser(bob.ID)
	if len(bobs) != 1 || bobs[0].Name != "Rice" {
		t.Errorf("bob's items = %+v", bobs)
	}
}

func TestPantryUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPantryStore(db)
	u := createTestUser(t, db, "alice@example.com")

	it, _ := ps.Create(u.ID, model.PantryItem{Name: "Milk", Category: "Dairy"})

	updated, err := ps.Update(it.ID, model.PantryItem{Name: "Oat Milk", Category: "Dairy", Quantity: "1"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Oat Milk" || updated.Quantity != "1" || updated.UserID != u.ID {
		t.Errorf("updated = %+v", updated)
	}

	if err := ps.Delete(it.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := ps.GetByID(it.ID); got != nil {
		t.Error("expected item to be deleted")
	}
}
