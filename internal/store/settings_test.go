package store

import (
	"testing"

	"github.com/dukerupert/pantrypal/internal/model"
)

func TestSettingsGetUnset(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)
	u := createTestUser(t, db, "alice@example.com")

	val, err := ss.Get(u.ID, "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "" {
		t.Errorf("value = %q, want empty", val)
	}
}

func TestSettingsSetOverwrites(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)
	u := createTestUser(t, db, "alice@example.com")

	if err := ss.Set(u.ID, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Set(u.ID, "k", "two"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	val, _ := ss.Get(u.ID, "k")
	if val != "two" {
		t.Errorf("value = %q, want %q", val, "two")
	}
}

func TestSettingsTheme(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	mode, err := ss.GetTheme(alice.ID)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if mode != model.ThemeLight {
		t.Errorf("default theme = %q, want %q", mode, model.ThemeLight)
	}

	if err := ss.SetTheme(alice.ID, model.ThemeSystem); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if mode, _ := ss.GetTheme(alice.ID); mode != model.ThemeSystem {
		t.Errorf("theme = %q, want %q", mode, model.ThemeSystem)
	}
	if mode, _ := ss.GetTheme(bob.ID); mode != model.ThemeLight {
		t.Errorf("other user's theme = %q, want %q", mode, model.ThemeLight)
	}

	if err := ss.SetTheme(alice.ID, "sepia"); err == nil {
		t.Error("expected error for invalid theme")
	}
}
