package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies an AppError
type ErrorType string

const (
	ErrTypeSchema      ErrorType = "SCHEMA"
	ErrTypeNoRecession ErrorType = "NO_RECESSION"
	ErrTypeEmptyGroup  ErrorType = "EMPTY_GROUP"
	ErrTypeParsing     ErrorType = "PARSING"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeConfig      ErrorType = "CONFIG"
)

// Sentinels for errors.Is checks. An AppError matches the sentinel of its type.
var (
	ErrSchemaMismatch = stderrors.New("input does not match the expected schema")
	ErrNoRecession    = stderrors.New("no recession found")
	ErrEmptyGroup     = stderrors.New("comparison group is empty")
)

// AppError is a typed error carrying optional cause and key/value context
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches the sentinel that corresponds to the error type.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrSchemaMismatch:
		return e.Type == ErrTypeSchema
	case ErrNoRecession:
		return e.Type == ErrTypeNoRecession
	case ErrEmptyGroup:
		return e.Type == ErrTypeEmptyGroup
	}
	return false
}

// WithContext records key=value on the error and returns it for chaining.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// NewAppError builds an AppError of the given type.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause, Context: map[string]any{}}
}

// NewSchemaError reports input that does not match its documented layout.
func NewSchemaError(source, message string) *AppError {
	return NewAppError(ErrTypeSchema, message, nil).WithContext("source", source)
}

// NewNoRecessionError reports a GDP series without the expected decline/growth pattern.
func NewNoRecessionError(message string) *AppError {
	return NewAppError(ErrTypeNoRecession, message, nil)
}

// NewEmptyGroupError reports a t-test group without observations.
func NewEmptyGroupError(group string) *AppError {
	return NewAppError(ErrTypeEmptyGroup, fmt.Sprintf("%s group has no observations", group), nil).
		WithContext("group", group)
}

func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError reports data that cannot be tested, such as a
// sample with zero spread.
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// Type returns the ErrorType of the first AppError in err's chain.
func Type(err error) (ErrorType, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsType reports whether err's chain contains an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	t, ok := Type(err)
	return ok && t == errType
}
