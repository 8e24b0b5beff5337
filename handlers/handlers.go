package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"yt-brief/errors"
	"yt-brief/models"
	"yt-brief/services/video"
	"yt-brief/summarize"
	"yt-brief/validation"
)

// maxRequestBody caps request bodies; the largest legitimate payload is a
// watch URL and a style name.
const maxRequestBody = 1 << 20

type VideoHandler struct {
	service   video.Service
	validator *validation.Validator
	log       *logrus.Logger
	version   string
}

func NewVideoHandler(service video.Service, validator *validation.Validator, log *logrus.Logger, version string) *VideoHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &VideoHandler{service: service, validator: validator, log: log, version: version}
}

// Register wires the handler's routes onto mux.
func (h *VideoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/summarize", h.Summarize)
	mux.HandleFunc("/api/transcribe", h.Transcribe)
	mux.HandleFunc("/api/videos/", h.Get)
	mux.HandleFunc("/health", h.Health)
}

type summarizeRequest struct {
	URL   string `json:"url"`
	Style string `json:"style"`
}

// Summarize handles POST /api/summarize. The request carries a watch URL and
// an optional style; an absent style falls back to the default.
func (h *VideoHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxRequestBody,
		AllowedMethods:   []string{http.MethodPost},
	}); err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	style, err := summarize.ParseStyle(req.Style)
	if err != nil {
		h.respondError(w, r, errors.InvalidInput("Summarize", err, "Unknown summary style"), 0)
		return
	}

	result, err := h.service.Summarize(r.Context(), req.URL, style)
	if err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	h.respondJSON(w, http.StatusOK, models.NewVideoResponse(result))
}

// Transcribe handles POST /api/transcribe: transcript only, no summary.
func (h *VideoHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxRequestBody,
		AllowedMethods:   []string{http.MethodPost},
	}); err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	result, err := h.service.Transcribe(r.Context(), req.URL)
	if err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	h.respondJSON(w, http.StatusOK, models.NewVideoResponse(result))
}

// Get handles GET /api/videos/{id}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		AllowedMethods: []string{http.MethodGet},
	}); err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	if id == "" || strings.Contains(id, "/") {
		h.respondError(w, r, errors.InvalidInput("Get", nil, "ID is required"), 0)
		return
	}

	result, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, 0)
		return
	}

	h.respondJSON(w, http.StatusOK, models.NewVideoResponse(result))
}

func (h *VideoHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// decodeRequest accepts either a JSON body or form values, so the static page
// and API clients share the endpoints.
func (h *VideoHandler) decodeRequest(r *http.Request) (*summarizeRequest, error) {
	const op = "handlers.decodeRequest"

	req := &summarizeRequest{}
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, errors.InvalidInput(op, err, "Invalid JSON body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, errors.InvalidInput(op, err, "Invalid form body")
		}
		req.URL = r.FormValue("url")
		req.Style = r.FormValue("style")
	}

	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.InvalidInput(op, nil, "URL is required")
	}

	return req, nil
}

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *VideoHandler) respondError(w http.ResponseWriter, r *http.Request, err error, code int) {
	if code == 0 {
		code = errors.CodeOf(err)
	}

	message := "An error occurred while processing your request. Please try again later."
	kind := errors.KindOf(err)
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}

	h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": code,
		"kind":   kind,
	}).WithError(err).Warn("Request failed")

	h.respondJSON(w, code, errorResponse{
		Error:     message,
		Kind:      string(kind),
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

func (h *VideoHandler) respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Error("Failed to encode JSON response")
	}
}
