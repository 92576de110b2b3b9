package http

import (
	"encoding/json"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"net/http"
	"time"
)

// Envelope messages
const (
	msgValidationFailed = "Validation failed"
	msgUnauthenticated  = "Authentication required"
	msgInvalidToken     = "Invalid or expired token"
	msgAccessDenied     = "Access denied"
	msgTooManyRequests  = "Too many requests"
	msgInternalError    = "Internal server error"
)

// APIResponse is the uniform envelope around every API payload
//
// swagger:model
type APIResponse[T any] struct {
	// Whether the request succeeded
	Success bool `json:"success"`

	// Human readable outcome
	Message string `json:"message"`

	// The payload, null on errors and deletes
	Data T `json:"data"`

	// When the envelope was built, RFC 3339
	Timestamp string `json:"timestamp"`
}

// NewAPIResponse builds an envelope stamped with the current time
func NewAPIResponse[T any](success bool, message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respond writes a successful envelope with status 200
func respond[T any](w http.ResponseWriter, message string, data T) {
	writeJSON(w, http.StatusOK, NewAPIResponse(true, message, data))
}

// respondError writes a failed envelope
func respondError(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, NewAPIResponse(false, message, data))
}

// writeError maps an error from the service layer to a status and envelope.
// Unclassified errors are logged and reported without details.
func writeError(w http.ResponseWriter, logger hclog.Logger, err error) {
	var validationErrs domain.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		respondError(w, http.StatusBadRequest, msgValidationFailed, validationErrs)
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidPageRequest), errors.Is(err, domain.ErrInvalidSortField):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.Error("Unhandled error", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternalError, nil)
	}
}
