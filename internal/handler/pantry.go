package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/model"
	"github.com/dukerupert/pantrypal/internal/store"
	"github.com/dukerupert/pantrypal/internal/websocket"
)

type PantryHandler struct {
	pantry     *store.PantryStore
	reconciler *grocery.Reconciler
	hub        *websocket.Hub
	horizon    int
	now        func() time.Time
	logger     *slog.Logger
}

func NewPantryHandler(ps *store.PantryStore, rec *grocery.Reconciler, hub *websocket.Hub, horizonDays int, logger *slog.Logger) *PantryHandler {
	return &PantryHandler{
		pantry:     ps,
		reconciler: rec,
		hub:        hub,
		horizon:    horizonDays,
		now:        time.Now,
		logger:     logger,
	}
}

type pantryItemRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Category       string `json:"category" validate:"max=100"`
	Quantity       string `json:"quantity" validate:"max=50"`
	Unit           string `json:"unit" validate:"max=50"`
	Price          string `json:"price" validate:"max=50"`
	ExpirationDate string `json:"expirationDate" validate:"max=20"`
}

func (req pantryItemRequest) item() model.PantryItem {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = grocery.Categorize(name)
	}
	return model.PantryItem{
		Name:           name,
		Category:       category,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Price:          req.Price,
		ExpirationDate: req.ExpirationDate,
	}
}

// items lists the user's pantry, never returning a nil slice.
func (h *PantryHandler) items(userID int64) ([]model.PantryItem, error) {
	items, err := h.pantry.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.PantryItem{}
	}
	return items, nil
}

// publish pushes the user's full pantry to live subscribers.
func (h *PantryHandler) publish(userID int64) {
	if h.hub == nil {
		return
	}
	items, err := h.items(userID)
	if err != nil {
		h.logger.Error("publish pantry", "user_id", userID, "error", err)
		return
	}
	h.hub.Publish(websocket.PantryTopic(userID), websocket.NewMessage("pantry", "updated", 0, items))
}

// ownedItem loads the pantry item named by the id path value and checks that
// the caller owns it.
func (h *PantryHandler) ownedItem(w http.ResponseWriter, r *http.Request) *model.PantryItem {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}
	it, err := h.pantry.GetByID(id)
	if err != nil {
		h.logger.Error("get pantry item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return nil
	}
	if it == nil || it.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "item not found")
		return nil
	}
	return it
}

// List handles GET /api/pantry
func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list pantry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list pantry")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Grouped handles GET /api/pantry/grouped
func (h *PantryHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	items, err := h.items(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list pantry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list pantry")
		return
	}
	writeJSON(w, http.StatusOK, grocery.GroupPantryItems(items))
}

// Create handles POST /api/pantry
func (h *PantryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pantryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	userID := auth.UserID(r.Context())
	created, err := h.reconciler.AddToPantry(userID, req.item())
	switch {
	case errors.Is(err, grocery.ErrDuplicate):
		writeError(w, http.StatusConflict, "This item is already in your pantry.")
		return
	case errors.Is(err, grocery.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case err != nil:
		h.logger.Error("add pantry item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.publish(userID)
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/pantry/{id}
func (h *PantryHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := h.ownedItem(w, r)
	if existing == nil {
		return
	}

	var req pantryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.reconciler.UpdatePantry(existing.UserID, existing.ID, req.item())
	switch {
	case errors.Is(err, grocery.ErrDuplicate):
		writeError(w, http.StatusConflict, "This item is already in your pantry.")
		return
	case err != nil:
		h.logger.Error("update pantry item", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.publish(existing.UserID)
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/pantry/{id}
func (h *PantryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing := h.ownedItem(w, r)
	if existing == nil {
		return
	}
	if err := h.pantry.Delete(existing.ID); err != nil {
		h.logger.Error("delete pantry item", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	h.publish(existing.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Expiring handles GET /api/pantry/expiring?days=N
func (h *PantryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := h.horizon
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 365 {
			writeError(w, http.StatusBadRequest, "days must be between 0 and 365")
			return
		}
		days = n
	}

	items, err := h.items(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list pantry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list pantry")
		return
	}
	writeJSON(w, http.StatusOK, grocery.ExpiringWithin(items, h.now(), days))
}

// Summary handles GET /api/pantry/summary
func (h *PantryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	items, err := h.items(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list pantry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list pantry")
		return
	}
	writeJSON(w, http.StatusOK, grocery.Summarize(items))
}
