package simpledrive

import (
	"io"

	"github.com/google/uuid"
)

// Request DTOs

// UploadFileRequest contains parameters for uploading a new file.
// InvalidationPath, when set, is passed to the Invalidator after the
// upload commits.
type UploadFileRequest struct {
	Data             io.Reader
	FileName         string
	OwnerID          uuid.UUID
	AccountID        uuid.UUID
	InvalidationPath string
}

// ListFilesRequest contains parameters for listing visible files.
type ListFilesRequest struct {
	User       CurrentUser
	Types      []FileType
	SearchText string
	Sort       string
	Limit      int
}

// RenameFileRequest contains parameters for renaming a file. Only the
// stored name changes; the blob and the derived type are untouched.
type RenameFileRequest struct {
	FileID           uuid.UUID
	Name             string
	Extension        string
	InvalidationPath string
}

// UpdateFileUsersRequest replaces a file's share list wholesale. The
// caller supplies the full desired set, not a delta.
type UpdateFileUsersRequest struct {
	FileID           uuid.UUID
	Emails           []string
	InvalidationPath string
}

// DeleteFileRequest contains parameters for deleting a file. BlobID is
// optional; when zero the record's persisted blob reference is used.
type DeleteFileRequest struct {
	FileID           uuid.UUID
	BlobID           uuid.UUID
	InvalidationPath string
}
