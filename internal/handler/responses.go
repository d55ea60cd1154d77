package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotReadyResponse lists the items whose selection misses its target
type NotReadyResponse struct {
	Error      string             `json:"error"`
	Shortfalls []domain.Shortfall `json:"shortfalls"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so an encoding failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error onto a status and user-facing message.
// Selections that miss their targets carry the per-item shortfall.
func respondServiceError(w http.ResponseWriter, err error) {
	var notReady *domain.NotReadyError
	if errors.As(err, &notReady) {
		respondJSON(w, http.StatusConflict, NotReadyResponse{Error: ErrMsgNotReady, Shortfalls: notReady.Shortfalls})
		return
	}
	status, msg := mapServiceErrorToUserMessage(err)
	respondError(w, status, msg)
}

// mapServiceErrorToUserMessage converts domain errors to HTTP status codes and
// messages users can act upon
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrRecipeNotApplicable):
		return http.StatusBadRequest, ErrMsgRecipeNotApplicable
	case errors.Is(err, domain.ErrOfferNotFound):
		return http.StatusNotFound, ErrMsgOfferNotFound
	case errors.Is(err, domain.ErrCompositeNotFound):
		return http.StatusNotFound, ErrMsgCompositeNotFound
	case errors.Is(err, domain.ErrRecipeNotFound):
		return http.StatusNotFound, ErrMsgRecipeNotFound
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusConflict, ErrMsgNotReady
	case errors.Is(err, domain.ErrOverConsumption):
		return http.StatusConflict, ErrMsgOverConsumption
	case errors.Is(err, domain.ErrAlreadyReleased):
		return http.StatusConflict, ErrMsgAlreadyReleased
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, ErrMsgCatalogUnavailable
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
