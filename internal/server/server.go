package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/barcode"
	"github.com/dukerupert/pantrypal/internal/config"
	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/handler"
	"github.com/dukerupert/pantrypal/internal/middleware"
	"github.com/dukerupert/pantrypal/internal/push"
	"github.com/dukerupert/pantrypal/internal/recipe"
	"github.com/dukerupert/pantrypal/internal/store"
	ws "github.com/dukerupert/pantrypal/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authService   *auth.Service
	authH         *handler.AuthHandler
	listH         *handler.ListHandler
	pantryH       *handler.PantryHandler
	catalogH      *handler.CatalogHandler
	scanH         *handler.ScanHandler
	recipeH       *handler.RecipeHandler
	settingsH     *handler.SettingsHandler
	pushH         *handler.PushHandler
	live          *handler.LiveAuthorizer
	sessionStore  *store.SessionStore
	pushStore     *store.PushStore
	rateLimiter   *middleware.RateLimiter
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	listStore := store.NewListStore(db)
	pantryStore := store.NewPantryStore(db)
	catalogStore := store.NewCatalogStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushSt := store.NewPushStore(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(userStore, sessionStore, tokens, logger.With("component", "auth"))

	reconciler := grocery.NewReconciler(listStore, pantryStore, logger.With("component", "reconciler"))
	barcodeClient := barcode.NewClient(cfg.BarcodeURL)
	suggester := recipe.NewSuggester(recipe.NewClient(cfg.RecipeURL), logger.With("component", "recipe"))

	pantryH := handler.NewPantryHandler(pantryStore, reconciler, hub, cfg.ExpiryHorizonDays, logger.With("component", "pantry"))
	listH := handler.NewListHandler(listStore, reconciler, hub, pantryH, logger.With("component", "list"))

	// Push notification service + scheduler
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.PushEnabled() {
		pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
		pushSched = push.NewScheduler(pushSvc, pushSt, pantryStore, cfg.ExpiryHorizonDays, logger)
		pushH = handler.NewPushHandler(pushSt, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:            db,
		hub:           hub,
		authService:   authSvc,
		authH:         handler.NewAuthHandler(authSvc, logger.With("component", "auth_handler")),
		listH:         listH,
		pantryH:       pantryH,
		catalogH:      handler.NewCatalogHandler(catalogStore, logger.With("component", "catalog")),
		scanH:         handler.NewScanHandler(barcodeClient, reconciler, listStore, listH, pantryH, logger.With("component", "scanner")),
		recipeH:       handler.NewRecipeHandler(suggester, pantryStore, cfg.ExpiryHorizonDays, logger.With("component", "recipe_handler")),
		settingsH:     handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		pushH:         pushH,
		live:          handler.NewLiveAuthorizer(listH, pantryH),
		sessionStore:  sessionStore,
		pushStore:     pushSt,
		rateLimiter:   middleware.NewRateLimiter(),
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// ScanHandler returns the scan handler for idle-session cleanup.
func (s *Server) ScanHandler() *handler.ScanHandler {
	return s.scanH
}

// PushScheduler returns the expiry reminder scheduler, or nil when push is
// not configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// Hub returns the live update hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.authService, s.logger.With("component", "auth_middleware"))
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		status = "database unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "clients": s.hub.ClientCount()})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	// Login and signup keep separate budgets per client IP.
	keyFunc := func(r *http.Request) string {
		return r.URL.Path + "|" + middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Account
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me", s.authH.UpdateMe)

	// Lists
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)
	mux.HandleFunc("GET /api/lists/{id}/grouped", s.listH.Grouped)
	mux.HandleFunc("POST /api/lists/{id}/items", s.listH.AddItem)
	mux.HandleFunc("PUT /api/lists/{id}/items/{item_id}", s.listH.UpdateItem)
	mux.HandleFunc("DELETE /api/lists/{id}/items/{item_id}", s.listH.DeleteItem)
	mux.HandleFunc("POST /api/lists/{id}/items/{item_id}/toggle", s.listH.ToggleItem)
	mux.HandleFunc("POST /api/lists/{id}/check-all", s.listH.CheckAll)
	mux.HandleFunc("POST /api/lists/{id}/uncheck-all", s.listH.UncheckAll)
	mux.HandleFunc("POST /api/lists/{id}/clear", s.listH.Clear)
	mux.HandleFunc("POST /api/lists/{id}/move-checked", s.listH.MoveChecked)

	// Pantry
	mux.HandleFunc("GET /api/pantry", s.pantryH.List)
	mux.HandleFunc("POST /api/pantry", s.pantryH.Create)
	mux.HandleFunc("GET /api/pantry/grouped", s.pantryH.Grouped)
	mux.HandleFunc("GET /api/pantry/expiring", s.pantryH.Expiring)
	mux.HandleFunc("GET /api/pantry/summary", s.pantryH.Summary)
	mux.HandleFunc("PUT /api/pantry/{id}", s.pantryH.Update)
	mux.HandleFunc("DELETE /api/pantry/{id}", s.pantryH.Delete)

	// Catalog
	mux.HandleFunc("GET /api/catalog", s.catalogH.Search)

	// Barcode scanning
	mux.HandleFunc("POST /api/scans", s.scanH.Open)
	mux.HandleFunc("GET /api/scans/{id}", s.scanH.Get)
	mux.HandleFunc("POST /api/scans/{id}/codes", s.scanH.Scan)
	mux.HandleFunc("POST /api/scans/{id}/ack", s.scanH.Acknowledge)
	mux.HandleFunc("DELETE /api/scans/{id}", s.scanH.Close)

	// Recipes
	mux.HandleFunc("GET /api/recipes", s.recipeH.Suggest)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)

	// Settings
	mux.HandleFunc("GET /api/settings/theme", s.settingsH.GetTheme)
	mux.HandleFunc("PUT /api/settings/theme", s.settingsH.UpdateTheme)

	// Push notification API routes
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)
	}

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.live.Authorize, s.logger.With("component", "websocket")))
}
