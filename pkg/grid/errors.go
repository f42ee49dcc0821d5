package grid

import "fmt"

// NotFoundError indicates that no grid with the requested name exists.
// It is a caller error: the engine surfaces it unchanged and does not retry.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("grid not found: %s", e.Name)
}

// NewNotFoundError creates a NotFoundError for the given grid name.
func NewNotFoundError(name string) *NotFoundError {
	return &NotFoundError{Name: name}
}

// StorageError represents an error from a grid storage backend.
type StorageError struct {
	Backend   string // "sqlite", "memory"
	Operation string // "find_grid", "list_categories", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("grid storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
