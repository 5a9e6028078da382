package extract

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/extractor"
)

// Handler exposes the extractor without any session state: the caller sends
// the current record and merges the proposed updates itself.
type Handler struct {
	extractor extractor.Extractor
}

func NewHandler(ext extractor.Extractor) *Handler {
	return &Handler{extractor: ext}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.extract)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) extract(w http.ResponseWriter, r *http.Request) {
	var req extractor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.extractor.Extract(r.Context(), req)
	if err != nil {
		slog.Error("failed to extract updates", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})

		return
	}

	if resp == nil {
		resp = &extractor.Response{}
	}

	resp.AIMessage = resp.Reply()

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
