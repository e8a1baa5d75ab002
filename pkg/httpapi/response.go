package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/formcheck/pkg/validator"
)

// JSONResponse is the envelope of every API response.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// CheckResult is the data of a successful check.
type CheckResult struct {
	Valid bool `json:"valid"`
}

// Error codes.
const (
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeBadRequest       = "bad_request"
	CodeUnsupportedMedia = "unsupported_media_type"
	CodeBodyTooLarge     = "request_too_large"
	CodeInternal         = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, JSONResponse{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, JSONResponse{Error: &ErrorDetail{Code: code, Message: message}})
}

// writeValidation reports a failed check as 422 with the failing field.
func writeValidation(w http.ResponseWriter, res validator.Result) {
	detail := &ErrorDetail{Code: CodeValidationFailed, Message: res.Message}
	if res.Field != "" {
		detail.Details = map[string][]string{res.Field: {res.Message}}
	}
	writeJSON(w, http.StatusUnprocessableEntity, JSONResponse{Error: detail})
}

// writeDecodeError maps body decoding errors to status codes.
func writeDecodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, err.Error())
	case errors.Is(err, ErrUnsupportedMediaType), errors.Is(err, ErrMissingContentType):
		writeError(w, http.StatusUnsupportedMediaType, CodeUnsupportedMedia, err.Error())
	default:
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	}
}
