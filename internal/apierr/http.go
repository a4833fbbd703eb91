package apierr

import (
	"errors"
	"net/http"
)

// Body is the standardized error response shape returned by the HTTP adapter.
type Body struct {
	Detail    string            `json:"detail"`
	StatusCode int              `json:"status_code"`
	ErrorCode string            `json:"error_code,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

var statusByErr = map[error]int{
	ErrAuthentication:             http.StatusUnauthorized,
	ErrEmailNotFound:              http.StatusNotFound,
	ErrInvalidCredentials:         http.StatusUnauthorized,
	ErrUsernameExists:             http.StatusConflict,
	ErrEmailExists:                http.StatusConflict,
	ErrWeakPassword:               http.StatusBadRequest,
	ErrUsernameTooShort:           http.StatusBadRequest,
	ErrUserNotFound:               http.StatusNotFound,
	ErrFriendshipAlreadyExists:    http.StatusConflict,
	ErrFriendRequestAlreadyExists: http.StatusConflict,
	ErrFriendRequestNotFound:      http.StatusNotFound,
	ErrInvalidFriendRequestState:  http.StatusBadRequest,
	ErrCannotFriendSelf:           http.StatusBadRequest,
	ErrNotAuthorized:              http.StatusForbidden,
	ErrMessageNotFound:            http.StatusNotFound,
	ErrForbidden:                  http.StatusForbidden,
	ErrDB:                         http.StatusInternalServerError,
	ErrUnexpected:                 http.StatusInternalServerError,
}

// ToBody maps a domain error to the status code and response body the HTTP
// adapter should write. Unrecognized errors fall back to UNEXPECTED_ERROR/500.
func ToBody(err error) (int, Body) {
	for sentinel, status := range statusByErr {
		if errors.Is(err, sentinel) {
			return status, Body{
				Detail:     err.Error(),
				StatusCode: status,
				ErrorCode:  sentinel.Error(),
			}
		}
	}
	return http.StatusInternalServerError, Body{
		Detail:     ErrUnexpected.Error(),
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  ErrUnexpected.Error(),
	}
}

// ValidationBody builds the 422 shape for per-field transport validation failures.
func ValidationBody(errs map[string]string) (int, Body) {
	return http.StatusUnprocessableEntity, Body{
		Detail:     "validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Errors:     errs,
	}
}
