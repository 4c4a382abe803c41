package authflow

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidVerificationCode is an exported constant or variable used by the authentication engine.
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	// ErrInvalidResetCode is an exported constant or variable used by the authentication engine.
	ErrInvalidResetCode = errors.New("invalid reset code")
	// ErrAlreadyVerified is an exported constant or variable used by the authentication engine.
	ErrAlreadyVerified = errors.New("account already verified")
	// ErrPermissionDenied is an exported constant or variable used by the authentication engine.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrVerificationDisabled is an exported constant or variable used by the authentication engine.
	ErrVerificationDisabled = errors.New("email verification disabled")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrAdapterResult is an exported constant or variable used by the authentication engine.
	ErrAdapterResult = errors.New("adapter returned malformed result")
)

// DuplicateKeyError reports a uniqueness violation from the adapter, naming
// the conflicting field(s).
type DuplicateKeyError struct {
	Fields []string
}

// Error describes the error operation and its observable behavior.
func (e *DuplicateKeyError) Error() string {
	if len(e.Fields) == 0 {
		return "duplicate key"
	}
	return strings.Join(e.Fields, ", ") + " already exists"
}

// FieldError is one field-level payload validation failure.
type FieldError struct {
	Field      string
	Constraint string
}

// ValidationError aggregates the field-level failures of one payload.
type ValidationError struct {
	Fields []FieldError
}

// Error describes the error operation and its observable behavior.
func (e *ValidationError) Error() string {
	return "payload validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns one "field: constraint" line per failed field.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Field+": "+f.Constraint)
	}
	return out
}
