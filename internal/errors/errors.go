// Package errors defines the structured error surface of the HTTP API.
// Every error is scoped to the current interaction cycle; none is fatal to
// the process.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for the dashboard error taxonomy.
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrUnauthorized     = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrWrongPassword    = New(http.StatusUnauthorized, "WRONG_PASSWORD", "Senha incorreta")
	ErrEmptyResult      = New(http.StatusNotFound, "EMPTY_RESULT", "Nenhum dado encontrado para os filtros selecionados")
	ErrInternalServer   = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrSourceFetch      = New(http.StatusBadGateway, "SOURCE_FETCH_FAILED", "Não foi possível carregar ou processar os dados da planilha")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// SourceFetchError wraps a data source failure with its cause. The caller
// sees a user-facing message and an empty dataset for the cycle.
func SourceFetchError(err error) *APIError {
	return NewWithDetails(http.StatusBadGateway, "SOURCE_FETCH_FAILED",
		"Não foi possível carregar ou processar os dados da planilha", err.Error())
}

// ReportError wraps a document generation failure.
func ReportError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "REPORT_GENERATION_FAILED",
		fmt.Sprintf("Report generation failed: %v", err), err.Error())
}

// ErrorResponse represents a standard error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}

// Render implements the render.Renderer interface.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
