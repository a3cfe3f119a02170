package proof

import (
	"github.com/pkg/errors"
)

// Stage names the step of a request that produced an error.
type Stage string

const (
	StageUnknown       Stage = ""
	StageValidation    Stage = "validation"
	StageBackend       Stage = "backend"
	StageSerialization Stage = "serialization"
)

// ValidationError reports input the caller got wrong.
type ValidationError struct {
	Err error
}

// NewValidationError formats a validation failure.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Err: errors.Errorf(format, args...)}
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) Stage() Stage  { return StageValidation }

// BackendError reports a failed or malformed backend call. Endpoint is the
// node reference the call was made against; it is scrubbed from Error().
type BackendError struct {
	Endpoint string
	Err      error
}

// NewBackendError wraps err as a backend failure against endpoint.
func NewBackendError(endpoint string, err error) *BackendError {
	return &BackendError{Endpoint: endpoint, Err: err}
}

func (e *BackendError) Error() string {
	return "backend failure: " + RedactMessage(e.Err.Error(), e.Endpoint)
}
func (e *BackendError) Unwrap() error { return e.Err }
func (e *BackendError) Stage() Stage  { return StageBackend }

// SerializationError reports a value that could not be encoded. It means a
// bug on our side, never bad input.
type SerializationError struct {
	Err error
}

// NewSerializationError formats a serialization failure.
func NewSerializationError(format string, args ...interface{}) *SerializationError {
	return &SerializationError{Err: errors.Errorf(format, args...)}
}

func (e *SerializationError) Error() string { return "serialization failure: " + e.Err.Error() }
func (e *SerializationError) Unwrap() error { return e.Err }
func (e *SerializationError) Stage() Stage  { return StageSerialization }

type staged interface {
	Stage() Stage
}

// StageOf returns the stage of the first classified error in err's chain.
func StageOf(err error) Stage {
	var s staged
	if errors.As(err, &s) {
		return s.Stage()
	}
	return StageUnknown
}

// IsValidation checks whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsBackend checks whether err is a BackendError and returns it.
func IsBackend(err error) (*BackendError, bool) {
	var b *BackendError
	if errors.As(err, &b) {
		return b, true
	}
	return nil, false
}

// IsSerialization checks whether err is a SerializationError and returns it.
func IsSerialization(err error) (*SerializationError, bool) {
	var s *SerializationError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
