package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tendant/simple-drive/pkg/simpledrive"
)

// Backend is an in-memory implementation of the simpledrive.BlobStore interface
type Backend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		blobs: make(map[string][]byte),
	}
}

// Upload stores the reader's bytes under blobID and reports the size
func (b *Backend) Upload(ctx context.Context, blobID string, reader io.Reader) (int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[blobID] = data
	return int64(len(data)), nil
}

// Download streams the bytes stored under blobID
func (b *Backend) Download(ctx context.Context, blobID string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[blobID]
	if !exists {
		return nil, simpledrive.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the bytes stored under blobID
func (b *Backend) Delete(ctx context.Context, blobID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.blobs[blobID]; !exists {
		return simpledrive.ErrBlobNotFound
	}

	delete(b.blobs, blobID)
	return nil
}

// Exists reports whether a blob is stored under blobID. Test helper.
func (b *Backend) Exists(blobID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.blobs[blobID]
	return exists
}
