package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/pantrypal/internal/model"
	"github.com/dukerupert/pantrypal/internal/store"
)

type CatalogHandler struct {
	catalog *store.CatalogStore
	logger  *slog.Logger
}

func NewCatalogHandler(cs *store.CatalogStore, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cs, logger: logger}
}

// Search handles GET /api/catalog?q=&limit=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	items, err := h.catalog.Search(r.URL.Query().Get("q"), limit)
	if err != nil {
		h.logger.Error("search catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to search catalog")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}
