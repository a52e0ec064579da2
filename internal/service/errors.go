package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrVersionConflict indicates the publication changed since the caller read it.
	// API layer should map this to HTTP 409 Conflict.
	ErrVersionConflict = errors.New("publication was modified by another request")

	// ErrAdminRequired indicates the operation is reserved to admin users.
	// API layer should map this to HTTP 403 Forbidden.
	ErrAdminRequired = errors.New("admin privileges required")

	// ErrInvalidCredentials indicates a failed login.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ServiceError wraps an unexpected error with the service and operation that failed.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}

// PublicationServiceError is a custom error type for publication service errors.
type PublicationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for PublicationServiceError.
func (e *PublicationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publication service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("publication service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PublicationServiceError) Unwrap() error {
	return e.Err
}

// NewPublicationServiceError creates a new PublicationServiceError.
func NewPublicationServiceError(operation, message string, err error) *PublicationServiceError {
	return &PublicationServiceError{Operation: operation, Message: message, Err: err}
}

// StorageError reports a blob store failure while handling uploads.
// API layer should map this to HTTP 500.
type StorageError struct {
	Filename string
	Err      error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("failed to store %s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("blob storage failure: %v", e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StorageError) Unwrap() error {
	return e.Err
}
