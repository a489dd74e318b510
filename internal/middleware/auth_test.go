package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/database"
	"github.com/dukerupert/pantrypal/internal/store"
)

func setupAuthMiddleware(t *testing.T) *auth.Service {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(store.NewUserStore(db), store.NewSessionStore(db), auth.NewTokenManager("test", time.Hour), logger)
}

func loginToken(t *testing.T, svc *auth.Service) string {
	t.Helper()
	_, err := svc.Signup(auth.SignupInput{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, _, err := svc.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuthNoToken(t *testing.T) {
	svc := setupAuthMiddleware(t)

	handler := RequireAuth(svc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body auth.Error
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != auth.CodeInvalidSession {
		t.Errorf("code = %q, want %q", body.Code, auth.CodeInvalidSession)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	svc := setupAuthMiddleware(t)

	handler := RequireAuth(svc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	svc := setupAuthMiddleware(t)
	token := loginToken(t, svc)

	var gotAC auth.AuthContext
	handler := RequireAuth(svc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected AuthContext in request context")
		}
		gotAC = ac
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotAC.UserID == 0 {
		t.Error("expected non-zero UserID")
	}
	if gotAC.SessionID == 0 {
		t.Error("expected non-zero SessionID")
	}
}

func TestRequireAuthRevokedSession(t *testing.T) {
	svc := setupAuthMiddleware(t)
	token := loginToken(t, svc)
	ac, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.Logout(ac.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	handler := RequireAuth(svc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

type failingAuthenticator struct{}

func (failingAuthenticator) Authenticate(string) (auth.AuthContext, error) {
	return auth.AuthContext{}, errors.New("database is locked")
}

func TestRequireAuthStoreFault(t *testing.T) {
	handler := RequireAuth(failingAuthenticator{}, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		ws     bool
		want   string
	}{
		{"bearer", "Bearer abc", "", false, "abc"},
		{"lowercase scheme", "bearer abc", "", false, "abc"},
		{"basic scheme", "Basic abc", "", false, ""},
		{"query ignored for plain requests", "", "abc", false, ""},
		{"query for websocket", "", "abc", true, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/ws"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.ws {
				req.Header.Set("Upgrade", "websocket")
			}
			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
