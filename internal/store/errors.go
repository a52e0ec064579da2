package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants (ErrPublicationNotFound, ErrUserNotFound...) wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same username).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity is rejected by the database,
	// for example by a check or foreign key constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInUse is returned when an entity cannot be deleted because other
	// entities still reference it (a category with publications, for instance).
	ErrInUse = errors.New("entity is still referenced")

	// ErrBlobNotFound is returned by a BlobStore when the object does not exist.
	ErrBlobNotFound = fmt.Errorf("%w: blob", ErrNotFound)

	// ErrPresignUnsupported is returned by blob stores that cannot issue
	// direct-upload URLs.
	ErrPresignUnsupported = errors.New("presigned uploads are not supported by this blob store")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrPublicationNotFound indicates that the requested publication does not exist in the store.
	ErrPublicationNotFound = fmt.Errorf("%w: publication", ErrNotFound)

	// ErrImageNotFound indicates that the requested image does not exist in the store.
	ErrImageNotFound = fmt.Errorf("%w: image", ErrNotFound)

	// ErrCategoryNotFound indicates that the requested category does not exist in the store.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	// ErrBrandNotFound indicates that the requested brand does not exist in the store.
	ErrBrandNotFound = fmt.Errorf("%w: brand", ErrNotFound)

	// ErrCommentNotFound indicates that the requested comment does not exist in the store.
	ErrCommentNotFound = fmt.Errorf("%w: comment", ErrNotFound)

	// ErrLikeNotFound indicates that the like does not exist in the store.
	ErrLikeNotFound = fmt.Errorf("%w: like", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUsernameExists indicates that a user with the given username already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrCategoryExists indicates that a category with the given name already exists.
	ErrCategoryExists = fmt.Errorf("%w: category", ErrDuplicate)

	// ErrBrandExists indicates that a brand with the given name already exists.
	ErrBrandExists = fmt.Errorf("%w: brand", ErrDuplicate)

	// ErrLikeExists indicates that the user already likes the target.
	ErrLikeExists = fmt.Errorf("%w: like", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Every entity-specific variant wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "publication", "image")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
