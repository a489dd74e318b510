package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/model"
	"github.com/dukerupert/pantrypal/internal/store"
	"github.com/dukerupert/pantrypal/internal/websocket"
)

type ListHandler struct {
	lists      *store.ListStore
	reconciler *grocery.Reconciler
	hub        *websocket.Hub
	pantry     *PantryHandler
	logger     *slog.Logger
}

func NewListHandler(ls *store.ListStore, rec *grocery.Reconciler, hub *websocket.Hub, pantry *PantryHandler, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: ls, reconciler: rec, hub: hub, pantry: pantry, logger: logger}
}

type listRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type listItemRequest struct {
	ID             string `json:"id" validate:"max=64"`
	Name           string `json:"name" validate:"required,max=200"`
	Category       string `json:"category" validate:"max=100"`
	Quantity       string `json:"quantity" validate:"max=50"`
	Unit           string `json:"unit" validate:"max=50"`
	Price          string `json:"price" validate:"max=50"`
	ExpirationDate string `json:"expirationDate" validate:"max=20"`
	Completed      bool   `json:"completed"`
}

func (req listItemRequest) item() model.ListItem {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = grocery.Categorize(name)
	}
	return model.ListItem{
		ID:             req.ID,
		Name:           name,
		Category:       category,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Price:          req.Price,
		ExpirationDate: req.ExpirationDate,
		Completed:      req.Completed,
	}
}

type groupedList struct {
	ID     int64                          `json:"id"`
	Name   string                         `json:"name"`
	Groups []grocery.Group[model.ListItem] `json:"groups"`
}

func (h *ListHandler) publish(l *model.List) {
	if h.hub != nil && l != nil {
		h.hub.Publish(websocket.ListTopic(l.ID), websocket.NewMessage("list", "updated", l.ID, l))
	}
}

// ownedList loads the list named by the id path value and checks that the
// caller owns it. It writes the error response and returns nil on failure.
func (h *ListHandler) ownedList(w http.ResponseWriter, r *http.Request) *model.List {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}
	l, err := h.lists.GetByID(id)
	if err != nil {
		h.logger.Error("get list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get list")
		return nil
	}
	if l == nil || l.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "list not found")
		return nil
	}
	return l
}

// List handles GET /api/lists
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list lists")
		return
	}
	if lists == nil {
		lists = []model.List{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// Create handles POST /api/lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	l, err := h.lists.Create(auth.UserID(r.Context()), name)
	if err != nil {
		h.logger.Error("create list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// Get handles GET /api/lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	if l := h.ownedList(w, r); l != nil {
		writeJSON(w, http.StatusOK, l)
	}
}

// Grouped handles GET /api/lists/{id}/grouped
func (h *ListHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}
	writeJSON(w, http.StatusOK, groupedList{ID: l.ID, Name: l.Name, Groups: grocery.GroupListItems(l.Items)})
}

// Delete handles DELETE /api/lists/{id}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}
	if err := h.lists.Delete(l.ID); err != nil {
		h.logger.Error("delete list", "id", l.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}
	if h.hub != nil {
		h.hub.Publish(websocket.ListTopic(l.ID), websocket.NewMessage("list", "deleted", l.ID, nil))
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/lists/{id}/items
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}

	var req listItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	updated, item, err := h.reconciler.AddToList(l.ID, req.item())
	switch {
	case errors.Is(err, grocery.ErrDuplicate):
		writeError(w, http.StatusConflict, "This item is already in your list.")
		return
	case errors.Is(err, grocery.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, grocery.ErrListNotFound):
		writeError(w, http.StatusNotFound, "list not found")
		return
	case err != nil:
		h.logger.Error("add list item", "list_id", l.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.publish(updated)
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/lists/{id}/items/{item_id}
func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}

	var req listItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	item := req.item()
	item.ID = r.PathValue("item_id")

	updated, found, err := h.lists.UpdateItem(l.ID, item)
	h.finishItemChange(w, updated, found, err, "update item")
}

// ToggleItem handles POST /api/lists/{id}/items/{item_id}/toggle
func (h *ListHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}
	updated, found, err := h.lists.ToggleItem(l.ID, r.PathValue("item_id"))
	h.finishItemChange(w, updated, found, err, "toggle item")
}

// DeleteItem handles DELETE /api/lists/{id}/items/{item_id}
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}
	updated, found, err := h.lists.RemoveItem(l.ID, r.PathValue("item_id"))
	h.finishItemChange(w, updated, found, err, "delete item")
}

func (h *ListHandler) finishItemChange(w http.ResponseWriter, l *model.List, found bool, err error, op string) {
	if err != nil {
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
		return
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.publish(l)
	writeJSON(w, http.StatusOK, l)
}

// CheckAll handles POST /api/lists/{id}/check-all
func (h *ListHandler) CheckAll(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "check all", func(id int64) (*model.List, error) {
		return h.lists.SetAllCompleted(id, true)
	})
}

// UncheckAll handles POST /api/lists/{id}/uncheck-all
func (h *ListHandler) UncheckAll(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "uncheck all", func(id int64) (*model.List, error) {
		return h.lists.SetAllCompleted(id, false)
	})
}

// Clear handles POST /api/lists/{id}/clear
func (h *ListHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "clear list", h.lists.Clear)
}

func (h *ListHandler) bulk(w http.ResponseWriter, r *http.Request, op string, fn func(id int64) (*model.List, error)) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}
	updated, err := fn(l.ID)
	if err != nil {
		h.logger.Error(op, "list_id", l.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.publish(updated)
	writeJSON(w, http.StatusOK, updated)
}

// MoveChecked handles POST /api/lists/{id}/move-checked
func (h *ListHandler) MoveChecked(w http.ResponseWriter, r *http.Request) {
	l := h.ownedList(w, r)
	if l == nil {
		return
	}
	userID := auth.UserID(r.Context())

	res, err := h.reconciler.MigrateChecked(userID, l.ID)
	if len(res.Moved) > 0 && h.pantry != nil {
		h.pantry.publish(userID)
	}
	switch {
	case errors.Is(err, grocery.ErrListNotFound):
		writeError(w, http.StatusNotFound, "list not found")
		return
	case err != nil:
		h.logger.Error("move checked items", "list_id", l.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to move checked items")
		return
	}

	h.publish(res.List)
	if res.Moved == nil {
		res.Moved = []model.PantryItem{}
	}
	if res.Skipped == nil {
		res.Skipped = []model.ListItem{}
	}
	writeJSON(w, http.StatusOK, res)
}
