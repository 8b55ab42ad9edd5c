package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthentication means the caller has no valid session or token.
	ErrAuthentication = errors.New("authentication required")
	// ErrAuthorization means the caller acts on another identity's resource.
	ErrAuthorization = errors.New("not allowed for this identity")
	// ErrNotFound means the requested profile row is absent.
	ErrNotFound = errors.New("profile not found")
	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
)

// ===============================
// Validation
// ===============================

type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// ValidationError collects per-field problems so they can be shown next to
// the offending input.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func NewValidationError(field, code string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Code: code}}}
}

func (e *ValidationError) Add(field, code string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Code)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Code returns the code reported for field, or "".
func (e *ValidationError) Code(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Code
		}
	}
	return ""
}

// OrNil lets callers accumulate into a *ValidationError and return it only
// when something was added.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ===============================
// Persistence
// ===============================

type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsValidation reports whether err carries field-level validation problems.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Business conflict codes, carried by httperr.BusinessError.
const (
	CodeUserTypeConflict = "user_type_conflict"
	CodeWrongUserType    = "wrong_user_type"
	CodeAlreadyPaid      = "already_paid"
	CodeEmailTaken       = "email_already_registered"
	CodeUnknownHairstyle = "unknown_hairstyle"
)
