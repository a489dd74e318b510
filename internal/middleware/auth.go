package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pantrypal/internal/auth"
)

// Authenticator resolves a bearer token to the caller.
type Authenticator interface {
	Authenticate(token string) (auth.AuthContext, error)
}

// RequireAuth validates the bearer token and populates AuthContext. The token
// comes from the Authorization header, or from the access_token query
// parameter for WebSocket upgrades, which cannot carry headers from browsers.
func RequireAuth(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, auth.NewError(auth.CodeInvalidSession))
				return
			}

			ac, err := authn.Authenticate(token)
			if err != nil {
				ae, ok := auth.AsError(err)
				if !ok {
					logger.Error("authenticate request", "error", err)
					writeError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				unauthorized(w, ae)
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the request's token, or "" when there is none.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if r.Header.Get("Upgrade") != "" {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, e *auth.Error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="pantrypal"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(e)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
