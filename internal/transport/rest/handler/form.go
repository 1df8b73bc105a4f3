package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"formpilot/internal/model"
	"formpilot/internal/service"
	"formpilot/internal/transport/rest/middleware"
)

// FormHandler handles form CRUD, submission and export endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// CreateFormRequest is the request body for creating or updating a form
type CreateFormRequest struct {
	Title     string           `json:"title"`
	Questions []model.Question `json:"questions"`
	Theme     model.Theme      `json:"theme"`
	IsPublic  bool             `json:"isPublic"`
}

// SubmitRequest is the request body for a form submission
type SubmitRequest struct {
	Data             map[string]interface{} `json:"data"`
	IsConversational bool                   `json:"isConversational"`
}

// Create handles POST /api/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := &model.Form{
		Title:     req.Title,
		Questions: req.Questions,
		Theme:     req.Theme,
		IsPublic:  req.IsPublic,
	}

	if _, err := h.formSvc.Create(r.Context(), userID, form); err != nil {
		writeFormError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// Mine handles GET /api/forms/mine
func (h *FormHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forms, err := h.formSvc.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if forms == nil {
		forms = []*model.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

// Get handles GET /api/forms/{formId}. Public forms are open; private
// forms require the owner's token.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	form, err := h.formSvc.Get(r.Context(), formID, userID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /api/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := &model.Form{
		ID:        formID,
		Title:     req.Title,
		Questions: req.Questions,
		Theme:     req.Theme,
		IsPublic:  req.IsPublic,
	}

	if err := h.formSvc.Update(r.Context(), userID, form); err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /api/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.formSvc.Delete(r.Context(), userID, formID); err != nil {
		writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Form deleted"})
}

// Submit handles POST /api/forms/{formId}/submit
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Data == nil {
		writeError(w, http.StatusBadRequest, "missing submission data")
		return
	}

	_, err := h.formSvc.Submit(r.Context(), formID, req.Data, middleware.ClientIP(r))
	if err != nil {
		writeFormError(w, err)
		return
	}

	if req.IsConversational {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Thank you for your submission!"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Response submitted successfully"})
}

// Responses handles GET /api/forms/{formId}/responses
func (h *FormHandler) Responses(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	responses, err := h.formSvc.Responses(r.Context(), formID, userID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	if responses == nil {
		responses = []*model.Response{}
	}
	writeJSON(w, http.StatusOK, responses)
}

// Export handles GET /api/forms/{formId}/export
func (h *FormHandler) Export(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var buf bytes.Buffer
	if err := h.formSvc.ExportCSV(r.Context(), formID, userID, &buf); err != nil {
		writeFormError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="responses-%s.csv"`, formID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// writeFormError maps form service errors to HTTP status codes
func writeFormError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrPrivateForm),
		errors.Is(err, service.ErrFormLimit), errors.Is(err, service.ErrSpamBlocked):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDuplicateTitle), errors.Is(err, service.ErrInvalidForm):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
