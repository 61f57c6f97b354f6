package domain

import (
	"errors"
)

var (
	ErrValidation = errors.New("invalid request")
	ErrDecode     = errors.New("invalid image")
	ErrTransform  = errors.New("transformation failed")
	ErrInternal   = errors.New("internal error")

	ErrOperationNotFound  = errors.New("operation not found")
	ErrRegistryNotCreated = errors.New("can't fetch operations, registry not initialized")
)

type ErrorKind string

const (
	KindValidation ErrorKind = "ValidationError"
	KindDecode     ErrorKind = "DecodeError"
	KindTransform  ErrorKind = "TransformError"
	KindInternal   ErrorKind = "InternalError"
)

// StageError is a classified failure of one processing stage. It matches the sentinel of its kind with
// errors.Is and unwraps to the underlying cause.
type StageError struct {
	Kind  ErrorKind
	Stage Stage
	Err   error
	// Hint describes the expected request shape for validation failures.
	Hint map[string]string
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == ErrValidation
	case KindDecode:
		return target == ErrDecode
	case KindTransform:
		return target == ErrTransform
	case KindInternal:
		return target == ErrInternal
	}
	return false
}

func ValidationError(err error, hint map[string]string) *StageError {
	return &StageError{Kind: KindValidation, Stage: StageValidate, Err: err, Hint: hint}
}

func DecodeError(err error) *StageError {
	return &StageError{Kind: KindDecode, Stage: StageDecode, Err: err}
}

func TransformError(err error) *StageError {
	return &StageError{Kind: KindTransform, Stage: StageTransform, Err: err}
}

func InternalError(stage Stage, err error) *StageError {
	return &StageError{Kind: KindInternal, Stage: stage, Err: err}
}

// Classify returns err as a StageError, treating anything unclassified as an internal fault of stage.
func Classify(stage Stage, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return InternalError(stage, err)
}
