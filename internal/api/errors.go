package api

import (
	"errors"
	"net/http"
)

var (
	ErrValidation         = errors.New("required fields missing")
	ErrConflict           = errors.New("item already exists or conflict")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("requested item not found")
	ErrHashing            = errors.New("password hashing failed")
	ErrInternal           = errors.New("internal error")
)

// Client-facing messages. 5xx messages never carry error detail.
const (
	MsgRequiredFieldsMissing = "Required fields missing"
	MsgLoginFieldsMissing    = "Email or password field missing"
	MsgUserExists            = "User already exists! Please login"
	MsgInvalidCredentials    = "Invalid credentials"
	MsgLoginRequired         = "Login to access this route"
	MsgInvalidToken          = "Invalid Token"
	MsgSomethingWentWrong    = "Something went wrong!"
)

// StatusFor maps a service error onto the status code and message returned to the client.
// Anything outside the known taxonomy is an internal error.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, MsgRequiredFieldsMissing
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, MsgUserExists
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, MsgLoginRequired
	case errors.Is(err, ErrInvalidToken):
		// expired and malformed tokens share this response
		return http.StatusBadRequest, MsgInvalidToken
	default:
		return http.StatusInternalServerError, MsgSomethingWentWrong
	}
}
