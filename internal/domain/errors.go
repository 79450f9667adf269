package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested or referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed input: a non-numeric identifier,
	// a missing body field or an unreadable request body.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery indicates that a collection query parameter was rejected.
	ErrInvalidQuery = errors.New("invalid query")
)

// Query parameter names as they appear on the wire.
const (
	ParamSort  = "sort"
	ParamOrder = "order"
	ParamLimit = "limit"
	ParamPage  = "p"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// QueryParamError reports a rejected collection query parameter
// (sort, order, limit or p).
type QueryParamError struct {
	Param string
	Value string
}

// Error implements the error interface.
func (e *QueryParamError) Error() string {
	return fmt.Sprintf("invalid %s query: %q", e.Param, e.Value)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *QueryParamError) Unwrap() error {
	return ErrInvalidQuery
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewQueryParamError creates a new QueryParamError.
func NewQueryParamError(param, value string) *QueryParamError {
	return &QueryParamError{
		Param: param,
		Value: value,
	}
}
