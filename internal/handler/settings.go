package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/store"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, logger: logger}
}

type themeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=light dark system"`
}

// GetTheme handles GET /api/settings/theme
func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := h.settingsStore.GetTheme(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get theme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": mode})
}

// UpdateTheme handles PUT /api/settings/theme
func (h *SettingsHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.settingsStore.SetTheme(auth.UserID(r.Context()), req.Mode); err != nil {
		h.logger.Error("set theme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": req.Mode})
}
