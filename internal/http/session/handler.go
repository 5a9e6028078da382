package session

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/chat"
	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/extractor"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
	"github.com/MrJamesThe3rd/invoicer/internal/session"
	"github.com/MrJamesThe3rd/invoicer/internal/transcript"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc         *session.Service
	turnTimeout time.Duration
}

type Option func(*Handler)

// WithTurnTimeout extends the response write deadline of a transcript upload
// by d for every replayed turn.
func WithTurnTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.turnTimeout = d
	}
}

func NewHandler(svc *session.Service, opts ...Option) *Handler {
	h := &Handler{svc: svc}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/messages", h.message)
		r.Post("/{id}/updates", h.applyUpdates)
		r.Patch("/{id}/fields", h.setField)
		r.Post("/{id}/items", h.addItem)
		r.Patch("/{id}/items/{itemID}", h.updateItem)
		r.Delete("/{id}/items/{itemID}", h.removeItem)
		r.Post("/{id}/chat", h.appendChat)
		r.Post("/{id}/reset", h.reset)
		r.Get("/{id}/render", h.render)
		r.Get("/{id}/email", h.email)
	})

	r.Post("/{id}/transcript", h.transcript)
}

func (h *Handler) create(w http.ResponseWriter, _ *http.Request) {
	id, state := h.svc.Create()

	writeJSON(w, http.StatusCreated, toCreateResponse(id, state))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.svc.State(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type messageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) message(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Turn(r.Context(), id, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Reply: result.Reply,
		Done:  result.Done,
		State: toStateResponse(result.State),
	})
}

func (h *Handler) applyUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !json.Valid(body) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	state, err := h.svc.ApplyUpdates(id, invoice.DecodePartial(body))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

type setFieldRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func (h *Handler) setField(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req setFieldRequest

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := h.svc.SetField(id, req.Path, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

type itemRequest struct {
	Description any `json:"description"`
	Quantity    any `json:"quantity"`
	UnitPrice   any `json:"unitPrice"`
}

// fields coerces the request the same way extractor items are coerced;
// values that do not coerce are left out.
func (req itemRequest) fields() engine.ItemFields {
	var f engine.ItemFields

	if s, ok := invoice.CoerceString(req.Description); ok {
		f.Description = new(s)
	}

	if n, ok := invoice.CoerceNumber(req.Quantity); ok {
		f.Quantity = new(n)
	}

	if n, ok := invoice.CoerceNumber(req.UnitPrice); ok && n >= 0 {
		f.UnitPrice = new(n)
	}

	return f
}

func decodeItem(r *http.Request) (itemRequest, error) {
	var req itemRequest

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	err := dec.Decode(&req)

	return req, err
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	req, err := decodeItem(r)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, state, err := h.svc.AddItem(id, req.fields())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemResponse{Item: item, State: toStateResponse(state)})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	req, err := decodeItem(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := h.svc.UpdateItem(id, chi.URLParam(r, "itemID"), req.fields())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.svc.RemoveItem(id, chi.URLParam(r, "itemID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

type chatRequest struct {
	Role    chat.Role `json:"role"`
	Content string    `json:"content"`
}

func (h *Handler) appendChat(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Role.Valid() {
		http.Error(w, "role must be user or assistant", http.StatusBadRequest)
		return
	}

	msg, err := h.svc.AppendChat(id, req.Role, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.svc.Reset(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	theme, err := render.ParseTheme(r.URL.Query().Get("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := h.svc.State(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, render.New(state.Record, theme))
}

func (h *Handler) email(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.svc.State(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := io.WriteString(w, export.EmailBody(render.New(state.Record, render.ThemeProfessional))); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (h *Handler) transcript(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	turns, err := transcript.Turns(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.svc.State(id); err != nil {
		writeServiceError(w, err)
		return
	}

	if h.turnTimeout > 0 {
		deadline := time.Now().Add(time.Duration(len(turns)+1) * h.turnTimeout)
		if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
			slog.Warn("failed to extend write deadline", "error", err)
		}
	}

	applied, replayErr := h.svc.Replay(r.Context(), id, turns)

	state, err := h.svc.State(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := transcriptResponse{
		Turns:   len(turns),
		Applied: applied,
		State:   toStateResponse(state),
	}

	status := http.StatusOK
	if replayErr != nil {
		resp.Error = replayErr.Error()
		status = http.StatusBadGateway
	}

	writeJSON(w, status, resp)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var rateErr *extractor.RateLimitError

	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, session.ErrEmptyMessage), errors.Is(err, invoice.ErrUnknownField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		slog.Error("session request failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
