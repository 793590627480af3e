package simpledrive

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-drive library
type Service interface {
	// File record operations
	UploadFile(ctx context.Context, req UploadFileRequest) (*FileRecord, error)
	GetFile(ctx context.Context, id uuid.UUID) (*FileRecord, error)
	ListFiles(ctx context.Context, req ListFilesRequest) ([]*FileRecord, error)
	RenameFile(ctx context.Context, req RenameFileRequest) (*FileRecord, error)
	UpdateFileUsers(ctx context.Context, req UpdateFileUsersRequest) (*FileRecord, error)
	DeleteFile(ctx context.Context, req DeleteFileRequest) (*DeleteFileResult, error)

	// Blob access
	DownloadFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)

	// Usage aggregation
	GetTotalSpaceUsed(ctx context.Context, ownerID uuid.UUID) (*UsageReport, error)
}
