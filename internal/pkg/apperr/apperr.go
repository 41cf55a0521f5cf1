// Package apperr holds the error kinds shared by services and the HTTP layer.
// Services wrap one of the kinds with %w; handlers classify with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrInternal     = errors.New("internal error")
)

type Kind struct {
	Status  int
	Code    string
	Message string
}

var (
	kindUnauthorized = Kind{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Authentication required"}
	kindNotFound     = Kind{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Resource not found"}
	kindValidation   = Kind{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: "Invalid request"}
	kindInternal     = Kind{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "Internal error"}
)

// Classify maps an error to its kind. Unknown errors are internal.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return kindUnauthorized
	case errors.Is(err, ErrNotFound):
		return kindNotFound
	case errors.Is(err, ErrValidation):
		return kindValidation
	default:
		return kindInternal
	}
}

func IsInternal(err error) bool {
	return Classify(err).Status == http.StatusInternalServerError
}
