package domain

import (
	"errors"
	"fmt"
)

var ErrInsufficientFunds = errors.New("Solde insuffisant")
var ErrAccountNotFound = errors.New("Compte introuvable")
var ErrInvalidAmount = errors.New("Le montant doit être positif")
var ErrNotAuthenticated = errors.New("Utilisateur non authentifié")
var ErrInvalidCredentials = errors.New("Identifiants invalides")

// ErrorKind classifies failures coming back from the backend.
type ErrorKind string

const (
	ErrorUnknown            ErrorKind = "UNKNOWN"
	ErrorNetworkUnreachable ErrorKind = "NETWORK_UNREACHABLE"
	ErrorAuthentication     ErrorKind = "AUTHENTICATION"
	ErrorValidation         ErrorKind = "VALIDATION"
	ErrorNotFound           ErrorKind = "NOT_FOUND"
)

// APIError carries the HTTP status and taxonomy kind of a failed backend
// call, plus any field-level validation errors a 400 response reported.
type APIError struct {
	Kind        ErrorKind
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
}

// ClassifyStatus maps an HTTP status code to the error taxonomy. Status 0
// is the network-unreachable convention.
func ClassifyStatus(status int) ErrorKind {
	switch {
	case status == 0:
		return ErrorNetworkUnreachable
	case status == 401 || status == 403:
		return ErrorAuthentication
	case status == 400:
		return ErrorValidation
	case status == 404:
		return ErrorNotFound
	default:
		return ErrorUnknown
	}
}

// IsAuthFailure reports whether err is a backend authentication failure
// (401/403), which must abort an aggregate load and clear the cache.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == ErrorAuthentication
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == ErrorNotFound
}
