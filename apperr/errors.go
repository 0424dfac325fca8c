// Package apperr classifies failures into validation, data-access and unexpected
// errors and turns them into the notifications shown to users.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindDataAccess
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDataAccess:
		return "data_access"
	default:
		return "unexpected"
	}
}

// Sentinel errors. Wrap them with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailNotConfirmed    = errors.New("email not confirmed")
	ErrEmailTaken           = errors.New("email already in use")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// ValidationError blocks a submission before any remote call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func Validation(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// DataAccessError wraps a collaborator failure (network, permission, constraint).
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *DataAccessError) Unwrap() error { return e.Err }

func DataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrEmailNotConfirmed),
		errors.Is(err, ErrEmailTaken), errors.Is(err, ErrConfirmationRequired):
		return KindValidation
	}
	var de *DataAccessError
	if errors.As(err, &de) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrInvalidToken) {
		return KindDataAccess
	}
	return KindUnexpected
}

// Status maps err to the HTTP status the handlers reply with.
func Status(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailNotConfirmed), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	}
	return http.StatusInternalServerError
}

// Code is the short machine-readable error string in JSON bodies.
func Code(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation_failed"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrEmailNotConfirmed):
		return "email_not_confirmed"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConfirmationRequired):
		return "confirmation_required"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	}
	if KindOf(err) == KindDataAccess {
		return "data_access"
	}
	return "unexpected"
}
