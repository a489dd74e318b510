package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/recipe"
	"github.com/dukerupert/pantrypal/internal/store"
)

type RecipeHandler struct {
	suggester *recipe.Suggester
	pantry    *store.PantryStore
	horizon   int
	now       func() time.Time
	logger    *slog.Logger
}

func NewRecipeHandler(s *recipe.Suggester, ps *store.PantryStore, horizonDays int, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{suggester: s, pantry: ps, horizon: horizonDays, now: time.Now, logger: logger}
}

// Suggest handles GET /api/recipes?filter=&q=
func (h *RecipeHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	filter, ok := recipe.ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown filter")
		return
	}

	items, err := h.pantry.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list pantry for recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list pantry")
		return
	}

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	var expiring []string
	for _, exp := range grocery.ExpiringWithin(items, h.now(), h.horizon) {
		expiring = append(expiring, exp.Name)
	}

	suggestions := h.suggester.Suggest(r.Context(), recipe.SuggestOptions{
		Ingredients: names,
		Filter:      filter,
		Query:       strings.TrimSpace(r.URL.Query().Get("q")),
		Expiring:    expiring,
	})
	writeJSON(w, http.StatusOK, suggestions)
}

// Get handles GET /api/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	meal, err := h.suggester.Client().Lookup(r.Context(), id)
	if err != nil {
		h.logger.Warn("recipe lookup", "id", id, "error", err)
	}
	if meal == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}
