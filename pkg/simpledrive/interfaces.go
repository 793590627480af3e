package simpledrive

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/tendant/simple-drive/pkg/simpledrive/query"
)

// BlobStore defines the interface for object-storage backends holding raw
// file bytes keyed by blob id.
type BlobStore interface {
	// Upload writes the reader's bytes under blobID and returns the
	// number of bytes stored. The returned size is the store's report
	// and is copied onto the file record at creation.
	Upload(ctx context.Context, blobID string, reader io.Reader) (int64, error)

	// Download streams the bytes stored under blobID.
	Download(ctx context.Context, blobID string) (io.ReadCloser, error)

	// Delete removes the bytes stored under blobID.
	Delete(ctx context.Context, blobID string) error
}

// MetadataStore defines the interface for file record persistence.
// Implementations must provide atomic single-record create, update and
// delete; the service layers no locking on top.
type MetadataStore interface {
	CreateFile(ctx context.Context, file *FileRecord) error
	GetFile(ctx context.Context, id uuid.UUID) (*FileRecord, error)
	UpdateFile(ctx context.Context, file *FileRecord) error
	DeleteFile(ctx context.Context, id uuid.UUID) error

	// ListFiles evaluates an ordered predicate list built by the query
	// package and returns the matching records.
	ListFiles(ctx context.Context, preds []query.Predicate) ([]*FileRecord, error)
}

// Invalidator is the hook into the external caching/presentation layer.
// The service calls Invalidate exactly once after a mutation commits, and
// only on success. Failures are logged, never propagated: the durable
// change already happened.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}
