package models

import (
	"errors"
)

var ErrBadRequest = errors.New("bad request")
var ErrUnauthorized = errors.New("unauthorized")
var ErrServerError = errors.New("server error")
var ErrNotFound = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")

// APIError keeps the human-readable message the backend put into the
// "error" field of its response envelope. Kind is one of the sentinel
// errors above, so callers can keep using errors.Is.
type APIError struct {
	Kind    error
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func NewAPIError(kind error, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// ServerMessage extracts the backend-provided message from err, or returns
// fallback when the error carries no message (transport failures etc).
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProductForm carries the four fields the admin product endpoints expect
// as query parameters. Presence is checked client-side, business rules are
// the server's job.
type ProductForm struct {
	Name        string
	Description string
	Price       float64
	CategoryId  int64
}

// Envelope is the common part of every backend response. The backend
// reports business failures with success=false on HTTP 200, so both the
// status code and Success have to be checked.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (e Envelope) Ok() bool {
	return e.Success
}

func (e Envelope) FailureMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// SigninResponse is the /auth/signin payload. A successful signin carries
// the token and identity fields but no success flag, so the token is the
// success criterion.
type SigninResponse struct {
	Envelope
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type ProfileResponse struct {
	Envelope
	Id       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// TokenClaims is what the client can read out of the bearer token payload
// without verifying the signature. A hint for the UI, never a trust
// decision: the authoritative identity always comes from /auth/profile.
type TokenClaims struct {
	Username string
	Email    string
	Roles    []string
}

// ValidationErrors maps a form field name to a message. An empty map means
// the form is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}
