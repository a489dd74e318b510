package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/pantrypal/internal/database"
	"github.com/dukerupert/pantrypal/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	u, err := NewUserStore(db).Create(email, "Test", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("alice@example.com", "Alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Name != "Alice" {
		t.Errorf("name = %q, want %q", u.Name, "Alice")
	}
	if u.PasswordHash != "hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "hash")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Disabled {
		t.Error("new user should not be disabled")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice@example.com", "Alice", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("ALICE@example.com", "Alice2", "h"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	created, err := us.Create("alice@example.com", "Alice", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByEmail("Alice@Example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("expected user %d, got %+v", created.ID, u)
	}

	missing, err := us.GetByEmail("bob@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserUpdateNameAndDisable(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	u := createTestUser(t, db, "alice@example.com")

	updated, err := us.UpdateName(u.ID, "Alicia")
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "Alicia" {
		t.Errorf("name = %q, want %q", updated.Name, "Alicia")
	}

	if err := us.SetDisabled(u.ID, true); err != nil {
		t.Fatalf("set disabled: %v", err)
	}
	got, _ := us.GetByID(u.ID)
	if !got.Disabled {
		t.Error("expected user to be disabled")
	}

	missing, err := us.UpdateName(999, "Nobody")
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	u := createTestUser(t, db, "alice@example.com")

	if _, err := NewListStore(db).Create(u.ID, "Weekly"); err != nil {
		t.Fatalf("create list: %v", err)
	}
	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	lists, err := NewListStore(db).ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("expected lists to be deleted with the user, got %d", len(lists))
	}
}
