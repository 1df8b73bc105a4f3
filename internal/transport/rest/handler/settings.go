package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formpilot/internal/service"
	"formpilot/internal/transport/rest/middleware"
)

// SettingsHandler handles per-user settings endpoints
type SettingsHandler struct {
	retentionSvc *service.RetentionService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(retentionSvc *service.RetentionService) *SettingsHandler {
	return &SettingsHandler{retentionSvc: retentionSvc}
}

// RetentionRequest is the request body for updating the retention window
type RetentionRequest struct {
	Days int `json:"days"`
}

// GetRetention handles GET /api/settings/retention
func (h *SettingsHandler) GetRetention(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days, err := h.retentionSvc.Days(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"days": days})
}

// SetRetention handles POST /api/settings/retention
func (h *SettingsHandler) SetRetention(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RetentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.retentionSvc.SetDays(r.Context(), userID, req.Days); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Retention updated"})
}
