package store

import (
	"testing"
	"time"
)

func TestSessionCreate(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice@example.com")

	sess, err := ss.Create(u.ID, time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.TokenID == "" {
		t.Error("expected non-empty token id")
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("expected session to expire in the future")
	}
}

func TestSessionGetByTokenID(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice@example.com")

	created, _ := ss.Create(u.ID, time.Hour)

	sess, err := ss.GetByTokenID(created.TokenID)
	if err != nil {
		t.Fatalf("get by token id: %v", err)
	}
	if sess == nil || sess.ID != created.ID {
		t.Fatalf("expected session %d, got %+v", created.ID, sess)
	}

	missing, err := ss.GetByTokenID("nonexistent")
	if err != nil {
		t.Fatalf("get by token id: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestSessionExpired(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice@example.com")

	expired, _ := ss.Create(u.ID, -time.Minute)
	live, _ := ss.Create(u.ID, time.Hour)

	sess, err := ss.GetByTokenID(expired.TokenID)
	if err != nil {
		t.Fatalf("get expired: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for expired session")
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if sess, _ := ss.GetByTokenID(live.TokenID); sess == nil {
		t.Error("live session should survive cleanup")
	}
}

func TestSessionDelete(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice@example.com")

	a, _ := ss.Create(u.ID, time.Hour)
	b, _ := ss.Create(u.ID, time.Hour)

	if err := ss.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sess, _ := ss.GetByTokenID(a.TokenID); sess != nil {
		t.Error("expected deleted session to be gone")
	}

	if err := ss.DeleteByUserID(u.ID); err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if sess, _ := ss.GetByTokenID(b.TokenID); sess != nil {
		t.Error("expected all user sessions to be gone")
	}
}
