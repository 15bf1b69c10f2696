package subscriber

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// StatusOK is the plain-text body of every successful mutation.
const StatusOK = "ok"

// Handler exposes the subscriber operations over HTTP. It decodes, calls the
// service and encodes; it does not validate field contents.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Subscribe handles POST /subscribe.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in entity.Subscriber
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid subscribe payload", "err", err)
		h.writeError(w, ErrInvalidInput)
		return
	}
	id, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Infow("subscriber created", "id", id)
	h.writeText(w, http.StatusOK, StatusOK)
}

// Update handles PUT /update.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in entity.Subscriber
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid update payload", "err", err)
		h.writeError(w, ErrInvalidInput)
		return
	}
	if err := h.svc.Update(r.Context(), &in); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeText(w, http.StatusOK, StatusOK)
}

// Delete handles DELETE /delete?id={int}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		h.logger.Debugw("invalid delete id", "id", r.URL.Query().Get("id"), "err", err)
		h.writeError(w, ErrInvalidInput)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeText(w, http.StatusOK, StatusOK)
}

// All handles GET /all.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeText(w, http.StatusOK, StatusOK)
}

// StatusFor maps a service error to the HTTP status reported to callers.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrStoreConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warnw("request failed", "status", status, "err", err)
	}
	h.writeText(w, status, http.StatusText(status))
}

func (h *Handler) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
