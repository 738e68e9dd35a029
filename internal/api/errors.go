package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// Every failed request is rendered as {success:false, code, message, details?}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Success bool   `json:"success" doc:"Always false for errors"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fieldErrors map[string]string
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		switch {
		case errors.Is(err, store.ErrNotFound):
			return &APIError{
				status:  http.StatusNotFound,
				Code:    string(domainerrors.CodeNotFound),
				Message: store.Summary(err),
			}
		case errors.Is(err, store.ErrAlreadyExists):
			return &APIError{
				status:  http.StatusConflict,
				Code:    string(domainerrors.CodeAlreadyExists),
				Message: store.Summary(err),
			}
		}

		// Schema validation failures from huma carry a location per field.
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if fieldErrors == nil {
				fieldErrors = make(map[string]string)
			}
			fieldErrors[detail.Location] = detail.Message
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
	if fieldErrors != nil {
		apiErr.Details = fieldErrors
	}
	return apiErr
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		return string(domainerrors.CodeInternal)
	}
}
