package apperror

import (
	"fmt"
	"net/http"
)

// Error is the single structured error type every handler and middleware
// raises. The echo error handler translates it into the uniform JSON body
// {code, status, message, detail} with a matching HTTP status.
type Error struct {
	Code    int            `json:"code"`
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, e.Status, e.Message)
}

func New(code int, status, message string, detail map[string]any) *Error {
	if detail == nil {
		detail = map[string]any{}
	}
	return &Error{Code: code, Status: status, Message: message, Detail: detail}
}

func Validation(message string, detail map[string]any) *Error {
	return New(http.StatusUnprocessableEntity, "Unprocessable Entity", message, detail)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "Unauthorized", message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "Forbidden", message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "Not Found", message, nil)
}

func Internal(message string, err error) *Error {
	detail := map[string]any{}
	if err != nil {
		detail["error"] = err.Error()
	}
	return New(http.StatusInternalServerError, "Internal Server Error", message, detail)
}
