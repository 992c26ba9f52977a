package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores: {"error": Message, "code": Code}.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error // Error original (causa), útil para logs, no se expone al cliente
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error { return e.Err }

// WithMessage reemplaza el mensaje.
// Devuelve una COPIA del error para no mutar las variables globales base
func (e *AppError) WithMessage(msg string) *AppError {
	c := *e
	c.Message = msg
	return &c
}

// WithCause agrega el error original (causa)
// Devuelve una COPIA del error
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

var (
	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "Invalid JSON body",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Missing required fields",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidFormat = &AppError{
		Code:       "INVALID_FORMAT",
		Message:    "One or more fields have an invalid format",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrUpstream es un rechazo del servicio de identidad o del store,
	// se devuelve con el mensaje original.
	ErrUpstream = &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    "Upstream request failed",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "Request body too large",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}

	// ErrEmailFailed es un fallo del proveedor de email.
	ErrEmailFailed = &AppError{
		Code:       "EMAIL_FAILED",
		Message:    "Failed to send email",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServerConfig = &AppError{
		Code:       "SERVER_CONFIG",
		Message:    "Server configuration error",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
)
