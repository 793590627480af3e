package simpledrive

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrFileNotFound indicates a file record was not found
	ErrFileNotFound = errors.New("file not found")

	// ErrBlobNotFound indicates a blob was not found in the blob store
	ErrBlobNotFound = errors.New("blob not found")

	// ErrUnauthenticated indicates no current user could be resolved for
	// an operation that requires one
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrStoreUnavailable indicates a backing store is unreachable or
	// rejecting requests
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FileError represents an error from a file record operation
type FileError struct {
	FileID uuid.UUID
	Op     string
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file operation %s failed for file %s: %v", e.Op, e.FileID, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// StorageError represents an error from a blob store operation
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DataIntegrityError indicates stored data violated a domain invariant,
// e.g. a record carrying a file type outside the enumerated set.
type DataIntegrityError struct {
	FileID uuid.UUID
	Field  string
	Value  string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity fault on file %s: field %s has unexpected value %q", e.FileID, e.Field, e.Value)
}

// PartialFailureError indicates a multi-step operation failed after an
// earlier step committed, and the compensating action itself failed. Err
// is the originating failure; CompensationErr is the failed cleanup. The
// condition leaves a storage leak or dangling reference that needs manual
// remediation.
type PartialFailureError struct {
	Op              string
	Err             error
	CompensationErr error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("operation %s failed (%v) and compensation also failed: %v", e.Op, e.Err, e.CompensationErr)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
