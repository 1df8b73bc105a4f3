package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"formpilot/internal/service"
	"formpilot/internal/transport/rest/middleware"
)

// AssistantHandler handles the AI-assisted endpoints
type AssistantHandler struct {
	assistantSvc *service.AssistantService
	formSvc      *service.FormService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantSvc *service.AssistantService, formSvc *service.FormService) *AssistantHandler {
	return &AssistantHandler{
		assistantSvc: assistantSvc,
		formSvc:      formSvc,
	}
}

// GenerateFormRequest is the request body for form generation
type GenerateFormRequest struct {
	Prompt string `json:"prompt"`
}

// ImproveQuestionRequest is the request body for question improvement
type ImproveQuestionRequest struct {
	Label string `json:"label"`
}

// ConversationalNextRequest is the request body for the conversational flow
type ConversationalNextRequest struct {
	FormID  string                 `json:"formId"`
	Answers map[string]interface{} `json:"answers"`
}

// GenerateForm handles POST /api/ai/generate-form. The draft is
// returned unsaved for the owner to review before creating the form.
func (h *AssistantHandler) GenerateForm(w http.ResponseWriter, r *http.Request) {
	var req GenerateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := h.assistantSvc.GenerateForm(r.Context(), req.Prompt)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// ImproveQuestion handles POST /api/ai/improve-question
func (h *AssistantHandler) ImproveQuestion(w http.ResponseWriter, r *http.Request) {
	var req ImproveQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestion, err := h.assistantSvc.ImproveQuestion(r.Context(), req.Label)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}

// Insights handles POST /api/ai/insights/{formId}. Only the owner may
// request insights; the ownership check happens here, before the
// assistant runs.
func (h *AssistantHandler) Insights(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	form, err := h.formSvc.Get(r.Context(), formID, userID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	if form.OwnerID != userID {
		writeError(w, http.StatusForbidden, "not the form owner")
		return
	}

	insights, err := h.assistantSvc.GenerateInsights(r.Context(), formID)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// ConversationalNext handles POST /api/ai/conversational-next. Public:
// it drives the respondent-facing flow.
func (h *AssistantHandler) ConversationalNext(w http.ResponseWriter, r *http.Request) {
	var req ConversationalNextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.assistantSvc.NextQuestion(r.Context(), req.FormID, req.Answers)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeAssistantError maps assistant errors to stable HTTP signals so
// the UI can distinguish "not configured" from "returned garbage".
func writeAssistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAIUnavailable):
		writeError(w, http.StatusServiceUnavailable, "AI service is not available. Please check your GEMINI_API_KEY configuration.")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFormNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExtractionFailed):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
