package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents malformed input rejected before storage is touched
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents a referenced thread or entity that does not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeStoreUnavailable represents an unreachable backing store
	ErrorTypeStoreUnavailable ErrorType = "store_unavailable"
	// ErrorTypeStore represents a backing store that answered with an error
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category. Typed errors embedding *BaseError inherit it.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ErrValidation is returned when an identifier or parameter is malformed or out of range
type ErrValidation struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ErrValidation {
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Not Found Errors

// ErrNotFound is returned when a referenced thread or entity is absent
type ErrNotFound struct {
	*BaseError
	Entity string
	ID     string
}

func NewNotFound(entity, id string) *ErrNotFound {
	return &ErrNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", entity, id), nil),
		Entity:    entity,
		ID:        id,
	}
}

// Store Errors

// ErrStoreUnavailable is returned when a backing store cannot be reached
type ErrStoreUnavailable struct {
	*BaseError
	Store     string
	Operation string
}

func NewStoreUnavailable(store, operation string, err error) *ErrStoreUnavailable {
	return &ErrStoreUnavailable{
		BaseError: NewBaseError(ErrorTypeStoreUnavailable, fmt.Sprintf("%s unavailable during %s", store, operation), err),
		Store:     store,
		Operation: operation,
	}
}

// ErrStoreQueryFailed is returned when a statement reaches the store and fails there
type ErrStoreQueryFailed struct {
	*BaseError
	Store     string
	Operation string
}

func NewStoreQueryFailed(store, operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("%s query failed: %s", store, operation), err),
		Store:     store,
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type kinded interface {
	Kind() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsStoreUnavailable reports whether err means the backing store was unreachable
func IsStoreUnavailable(err error) bool {
	return IsErrorType(err, ErrorTypeStoreUnavailable)
}

// IsRetryable checks if an error is retryable by the caller. Nothing in the
// core retries; this only informs the transport layer.
func IsRetryable(err error) bool {
	return IsStoreUnavailable(err)
}
