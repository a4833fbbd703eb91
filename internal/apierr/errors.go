// Package apierr defines the domain error taxonomy shared by every service
// and the HTTP adapter that translates it into transport responses.
package apierr

import "errors"

// Authentication
var (
	ErrAuthentication     = errors.New("AUTHENTICATION_ERROR")
	ErrEmailNotFound      = errors.New("EMAIL_NOT_FOUND")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
)

// Registration
var (
	ErrUsernameExists   = errors.New("USERNAME_EXISTS")
	ErrEmailExists      = errors.New("EMAIL_EXISTS")
	ErrWeakPassword     = errors.New("WEAK_PASSWORD")
	ErrUsernameTooShort = errors.New("USERNAME_TOO_SHORT")
)

// Social graph
var (
	ErrUserNotFound               = errors.New("USER_NOT_FOUND")
	ErrFriendshipAlreadyExists    = errors.New("FRIENDSHIP_ALREADY_EXISTS")
	ErrFriendRequestAlreadyExists = errors.New("FRIEND_REQUEST_ALREADY_EXISTS")
	ErrFriendRequestNotFound      = errors.New("FRIEND_REQUEST_NOT_FOUND")
	ErrInvalidFriendRequestState  = errors.New("INVALID_FRIEND_REQUEST_STATE")
	ErrCannotFriendSelf           = errors.New("CANNOT_FRIEND_SELF")
	ErrNotAuthorized              = errors.New("NOT_AUTHORIZED")
)

// Messaging
var (
	ErrMessageNotFound = errors.New("MESSAGE_NOT_FOUND")
	ErrForbidden       = errors.New("FORBIDDEN")
)

// Infrastructure
var (
	ErrDB         = errors.New("DB_ERROR")
	ErrUnexpected = errors.New("UNEXPECTED_ERROR")
)
