// Package apperrors defines the error taxonomy shared by the service layer
// and the HTTP shell. Services only ever return one of these variants; the
// shell maps each variant to a status code and response envelope.
package apperrors

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// FieldError reports a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level failures for malformed input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

// NotFoundError signals that the entity for a given id or key is absent.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError signals a duplicate unique-key creation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ForeignKeyError signals that a referenced entity does not exist.
type ForeignKeyError struct {
	Message string
}

func (e *ForeignKeyError) Error() string {
	return e.Message
}

// InsufficientStockError signals that a cart mutation would exceed the
// product's available stock. Available carries how many units could still
// be added at the time of the check.
type InsufficientStockError struct {
	Available int
	Message   string
}

func (e *InsufficientStockError) Error() string {
	return e.Message
}

// InternalError wraps any failure that does not fit the taxonomy. The
// underlying message is only exposed in non-production environments.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Constructors

func NewValidation(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func NewNotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func NewForeignKey(message string) *ForeignKeyError {
	return &ForeignKeyError{Message: message}
}

func NewInsufficientStock(available int, format string, args ...interface{}) *InsufficientStockError {
	return &InsufficientStockError{
		Available: available,
		Message:   fmt.Sprintf(format, args...),
	}
}

func NewInternal(err error) *InternalError {
	return &InternalError{Err: err}
}

// FromMongo classifies a storage-layer failure. notFoundMessage is used when
// the driver reports no matching document; transient and unknown failures
// come back as InternalError for the shell to decide on retry policy.
func FromMongo(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NewNotFound(notFoundMessage)
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewConflict("A record with this data already exists")
	}
	return NewInternal(err)
}
