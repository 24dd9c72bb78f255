package assessment

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/adaptlearn/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func objectiveID(r *http.Request) string {
	return mux.Vars(r)["objectiveId"]
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	obj := objectiveID(r)
	if obj == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "objectiveId is required"})
		return
	}

	resp, err := h.service.NextQuestion(userID, obj)
	if err != nil {
		log.Printf("[handler] NextQuestion error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to select a question"})
		return
	}

	// An exhausted pool is a normal outcome — the caller generates new content.
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	obj := objectiveID(r)
	if obj == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "objectiveId is required"})
		return
	}

	var req models.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.PromptID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "prompt_id is required"})
		return
	}
	if !models.ValidAssessmentTypes[models.AssessmentType(req.AssessmentType)] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid assessment_type"})
		return
	}

	result, err := h.service.SubmitResponse(userID, obj, req)
	if err == ErrPromptNotFound {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Prompt not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] SubmitResponse error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record response"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GetEstimate(userID, objectiveID(r))
	if err == ErrNoResponses {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No responses recorded for this objective"})
		return
	}
	if err != nil {
		log.Printf("[handler] GetEstimate error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to compute estimate"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMastery(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GetMasteryStatus(userID, objectiveID(r))
	if err != nil {
		log.Printf("[handler] GetMastery error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check mastery"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetEfficiency(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	metrics, err := h.service.GetEfficiency(userID, objectiveID(r))
	if err != nil {
		log.Printf("[handler] GetEfficiency error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to compute efficiency metrics"})
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ── Admin Handlers ──────────────────────────────────────

func (h *Handler) RefreshItemAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RefreshItemAnalysis()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Item analysis failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) GetWeakItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetWeakItems()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list weak items"})
		return
	}
	if items == nil {
		items = []models.QuestionRecord{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
