package http

import (
	"net/http"

	"libraflow-backend/internal/service"
)

type AssistantHandler struct {
	assistantSvc service.AssistantService
}

func NewAssistantHandler(assistantSvc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantSvc: assistantSvc}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeBadRequest(w, "message is required")
		return
	}
	reply, err := h.assistantSvc.Chat(r.Context(), req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// Recommend suggests books from the caller's loan history. The fallback flag
// tells the client the suggestions are canned rather than model-generated.
func (h *AssistantHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	recs, fallback, err := h.assistantSvc.Recommend(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"fallback":        fallback,
	})
}

type summarizeRequest struct {
	BookID int32 `json:"book_id"`
}

func (h *AssistantHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookID == 0 {
		writeBadRequest(w, "book_id is required")
		return
	}
	summary, fallback, err := h.assistantSvc.Summarize(r.Context(), req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":  summary,
		"fallback": fallback,
	})
}

func (h *AssistantHandler) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, fallback, err := h.assistantSvc.StatsSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":  summary,
		"fallback": fallback,
	})
}
