package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Timestamp string `json:"timestamp"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message, field string) {
	respondWithJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:      http.StatusText(statusCode),
			Message:   message,
			Field:     field,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// statusFor maps provider errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnsupportedResource), errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrMissingRequiredField), errors.Is(err, types.ErrInvalidFieldValue):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrUnknownColumn), errors.Is(err, types.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrStorageNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithErr writes err with its mapped status. Storage failures are
// reported without their driver detail.
func respondWithErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	var fe *types.FieldError
	field := ""
	if errors.As(err, &fe) {
		field = fe.Field
	}
	respondWithError(w, status, message, field)
}
