package model

import (
	"errors"
	"net/http"
)

// ErrorKind classifies API failures so controllers can map them to HTTP
// statuses without inspecting error strings.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindNotFound
	KindDatabase
)

type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code. Database errors surface
// as 500 with no retry.
func (e *APIError) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewBadRequest(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

func NewNotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

func NewDatabaseError(err error) *APIError {
	return &APIError{Kind: KindDatabase, Message: "database error", Err: err}
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
