package evaluation

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates that the requested evaluation does not exist.
type NotFoundError struct {
	ID uuid.UUID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("evaluation not found: %s", e.ID)
}

// NewNotFoundError creates a NotFoundError for the given evaluation ID.
func NewNotFoundError(id uuid.UUID) *NotFoundError {
	return &NotFoundError{ID: id}
}

// StorageError represents an error from an evaluation storage backend.
// It is propagated unchanged; retry policy belongs to the storage layer.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("evaluation storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// CappingInvariantError signals that a capping group's adjusted scores did
// not land exactly on the cap. The remainder-to-last-member rule makes this
// impossible for correct inputs, so it always indicates a bug in the capping
// algorithm and aborts the run rather than persisting an inconsistent total.
type CappingInvariantError struct {
	Group    string
	Cap      int
	Adjusted int
}

// Error implements the error interface.
func (e *CappingInvariantError) Error() string {
	return fmt.Sprintf("capping invariant violated for group %q: adjusted sum %d != cap %d",
		e.Group, e.Adjusted, e.Cap)
}

// NewCappingInvariantError creates a new CappingInvariantError.
func NewCappingInvariantError(group string, limit, adjusted int) *CappingInvariantError {
	return &CappingInvariantError{Group: group, Cap: limit, Adjusted: adjusted}
}
