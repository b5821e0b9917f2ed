// Package apperr defines the error taxonomy for the RAG pipeline and its
// mapping to HTTP status codes.
//
// Input-side failures (bad path, no matching files, unknown model selector)
// are client errors; collaborator failures (vector store, LLM backend, clone
// or extraction) are server errors. Handlers call HTTPStatus to translate.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for HTTP mapping and logging.
type Kind int

const (
	// KindInternal is an unexpected internal failure.
	KindInternal Kind = iota
	// KindInvalidInput is a client error: bad path, bad URL, non-zip upload.
	KindInvalidInput
	// KindNoFilesFound means traversal matched zero source files.
	KindNoFilesFound
	// KindUnknownModel means the chat model selector is not a known profile.
	KindUnknownModel
	// KindIndexUnavailable means the vector store could not complete an operation.
	KindIndexUnavailable
	// KindGeneratorUnavailable means the LLM backend call failed.
	KindGeneratorUnavailable
)

// Error carries a kind, a human-readable message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error with the given kind, message, and cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidInput creates a client input error.
func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

// NoFilesFound creates an error for a traversal with zero matching files.
func NoFilesFound(message string) *Error {
	return New(KindNoFilesFound, message)
}

// UnknownModel creates an error for an unrecognized model selector.
func UnknownModel(selector string) *Error {
	return New(KindUnknownModel, fmt.Sprintf("unknown model: %s", selector))
}

// IndexUnavailable wraps a vector store failure.
func IndexUnavailable(message string, err error) *Error {
	return Wrap(KindIndexUnavailable, message, err)
}

// GeneratorUnavailable wraps an LLM backend failure.
func GeneratorUnavailable(message string, err error) *Error {
	return Wrap(KindGeneratorUnavailable, message, err)
}

// KindOf returns the kind of err if it is (or wraps) an *Error,
// otherwise KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the HTTP status the API should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindNoFilesFound, KindUnknownModel:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
