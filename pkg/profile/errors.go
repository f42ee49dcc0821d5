package profile

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates that no profile exists for the given application.
type NotFoundError struct {
	ApplicationID uuid.UUID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile not found for application: %s", e.ApplicationID)
}

// NewNotFoundError creates a NotFoundError for the given application ID.
func NewNotFoundError(applicationID uuid.UUID) *NotFoundError {
	return &NotFoundError{ApplicationID: applicationID}
}

// StorageError represents an error from a profile storage backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("profile storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
