package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"campuseventhub/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeEventNotOpen       = "event_not_open"
	ErrCodeSeatsExhausted     = "seats_exhausted"
	ErrCodeAlreadyRegistered  = "already_registered"
	ErrCodeConflict           = "conflict"
	ErrCodeStorageUnavailable = "storage_unavailable"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode,
// and encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteDomainError maps an engine error to its HTTP representation. Returns
// false for errors with no mapping, which the caller should log and surface
// as 500.
func WriteDomainError(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, ve.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		WriteJSONError(w, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrEventNotOpen):
		WriteJSONError(w, http.StatusConflict, ErrCodeEventNotOpen, err.Error())
	case errors.Is(err, domain.ErrSeatsExhausted):
		WriteJSONError(w, http.StatusConflict, ErrCodeSeatsExhausted, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered):
		WriteJSONError(w, http.StatusConflict, ErrCodeAlreadyRegistered, err.Error())
	case errors.Is(err, domain.ErrConflictRetryable):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "temporarily contended, retry")
	case errors.Is(err, domain.ErrStorageUnavailable):
		WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "storage unavailable")
	default:
		return false
	}
	return true
}
