package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tendant/simple-drive/pkg/simpledrive"
)

// Backend is a filesystem implementation of the simpledrive.BlobStore
// interface. Blobs live as flat files under the base directory, named by
// blob id.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing blobs
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// Upload writes the reader's bytes to a file named by blobID and reports
// the written size
func (b *Backend) Upload(ctx context.Context, blobID string, reader io.Reader) (int64, error) {
	path := b.blobPath(blobID)

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to write blob file: %w", err)
	}

	return n, nil
}

// Download opens the blob file for reading
func (b *Backend) Download(ctx context.Context, blobID string) (io.ReadCloser, error) {
	file, err := os.Open(b.blobPath(blobID))
	if os.IsNotExist(err) {
		return nil, simpledrive.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open blob file: %w", err)
	}

	return file, nil
}

// Delete removes the blob file
func (b *Backend) Delete(ctx context.Context, blobID string) error {
	path := b.blobPath(blobID)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return simpledrive.ErrBlobNotFound
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete blob file: %w", err)
	}

	return nil
}

// blobPath keeps blob ids from escaping the base directory.
func (b *Backend) blobPath(blobID string) string {
	return filepath.Join(b.baseDir, filepath.Base(blobID))
}
