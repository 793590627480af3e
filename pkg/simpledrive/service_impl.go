package simpledrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-drive/pkg/simpledrive/query"
)

// service implements the Service interface
type service struct {
	metadata    MetadataStore
	blobs       BlobStore
	invalidator Invalidator
	urlBase     string
	logger      *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithMetadataStore sets the metadata store for the service
func WithMetadataStore(store MetadataStore) Option {
	return func(s *service) {
		s.metadata = store
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithInvalidator sets the cache invalidation hook
func WithInvalidator(inv Invalidator) Option {
	return func(s *service) {
		s.invalidator = inv
	}
}

// WithFileURLBase sets the base used when deriving file view URLs
func WithFileURLBase(base string) Option {
	return func(s *service) {
		s.urlBase = base
	}
}

// WithLogger sets the structured logger used for partial-failure reporting
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		urlBase: DefaultFileURLBase,
	}

	for _, option := range options {
		option(s)
	}

	if s.metadata == nil {
		return nil, fmt.Errorf("metadata store is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.invalidator == nil {
		s.invalidator = NewNoopInvalidator()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// UploadFile writes the blob first, then creates the metadata record. A
// metadata failure triggers a mandatory compensating blob delete so the
// 1:1 record/blob invariant holds; leaving the blob behind would be a
// silent storage leak with no recovery path.
func (s *service) UploadFile(ctx context.Context, req UploadFileRequest) (*FileRecord, error) {
	blobID := uuid.New()

	size, err := s.blobs.Upload(ctx, blobID.String(), req.Data)
	if err != nil {
		// Nothing was created; no compensation needed.
		return nil, &StorageError{Key: blobID.String(), Op: "upload", Err: err}
	}

	fileType, extension := FileTypeFromName(req.FileName)
	now := time.Now().UTC()
	file := &FileRecord{
		ID:        uuid.New(),
		BlobID:    blobID,
		Name:      req.FileName,
		Extension: extension,
		Type:      fileType,
		URL:       FileURL(s.urlBase, blobID),
		Size:      size,
		OwnerID:   req.OwnerID,
		AccountID: req.AccountID,
		Users:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.metadata.CreateFile(ctx, file); err != nil {
		createErr := &FileError{FileID: file.ID, Op: "create", Err: err}
		if delErr := s.blobs.Delete(ctx, blobID.String()); delErr != nil {
			pf := &PartialFailureError{Op: "upload", Err: createErr, CompensationErr: delErr}
			s.logger.Error("upload compensation failed, blob orphaned",
				"blob_id", blobID.String(), "error", err, "compensation_error", delErr)
			return nil, pf
		}
		return nil, createErr
	}

	s.invalidate(ctx, req.InvalidationPath)
	return file, nil
}

func (s *service) GetFile(ctx context.Context, id uuid.UUID) (*FileRecord, error) {
	return s.metadata.GetFile(ctx, id)
}

// ListFiles returns the records visible to the request's user: owned
// records plus records whose share list contains the user's email.
func (s *service) ListFiles(ctx context.Context, req ListFilesRequest) ([]*FileRecord, error) {
	if req.User.IsZero() {
		return nil, ErrUnauthenticated
	}

	types := make([]string, 0, len(req.Types))
	for _, t := range req.Types {
		types = append(types, string(t))
	}

	preds := query.Build(req.User.ID.String(), req.User.Email, query.Options{
		Types:      types,
		SearchText: req.SearchText,
		Sort:       req.Sort,
		Limit:      req.Limit,
	})

	return s.metadata.ListFiles(ctx, preds)
}

// RenameFile updates the stored name to "<name>.<extension>". The blob,
// the derived type and the extension derivation are untouched.
func (s *service) RenameFile(ctx context.Context, req RenameFileRequest) (*FileRecord, error) {
	file, err := s.metadata.GetFile(ctx, req.FileID)
	if err != nil {
		return nil, err
	}

	file.Name = fmt.Sprintf("%s.%s", req.Name, req.Extension)
	file.UpdatedAt = time.Now().UTC()

	if err := s.metadata.UpdateFile(ctx, file); err != nil {
		return nil, &FileError{FileID: req.FileID, Op: "rename", Err: err}
	}

	s.invalidate(ctx, req.InvalidationPath)
	return file, nil
}

// UpdateFileUsers replaces the share list wholesale with the supplied
// emails. The owner's own email is never listed; ownership access is
// implicit.
func (s *service) UpdateFileUsers(ctx context.Context, req UpdateFileUsersRequest) (*FileRecord, error) {
	file, err := s.metadata.GetFile(ctx, req.FileID)
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(req.Emails))
	for _, email := range req.Emails {
		users = append(users, email)
	}
	file.Users = users
	file.UpdatedAt = time.Now().UTC()

	if err := s.metadata.UpdateFile(ctx, file); err != nil {
		return nil, &FileError{FileID: req.FileID, Op: "update_users", Err: err}
	}

	s.invalidate(ctx, req.InvalidationPath)
	return file, nil
}

// DeleteFile removes the metadata record first, then the blob. The
// ordering is deliberate: the user-visible entity disappears atomically
// even if the trailing blob delete fails, at the cost of a narrow window
// where an unreferenced blob survives.
func (s *service) DeleteFile(ctx context.Context, req DeleteFileRequest) (*DeleteFileResult, error) {
	file, err := s.metadata.GetFile(ctx, req.FileID)
	if err != nil {
		return nil, err
	}

	blobID := s.resolveBlobID(req, file)

	if err := s.metadata.DeleteFile(ctx, req.FileID); err != nil {
		return nil, &FileError{FileID: req.FileID, Op: "delete", Err: err}
	}

	result := &DeleteFileResult{Status: "success"}
	if blobID != uuid.Nil {
		if err := s.blobs.Delete(ctx, blobID.String()); err != nil {
			// The record is already gone; report the orphan instead of
			// rolling back.
			result.OrphanedBlob = true
			s.logger.Error("blob deletion failed after metadata delete, blob orphaned",
				"file_id", req.FileID.String(), "blob_id", blobID.String(), "error", err)
		}
	}

	s.invalidate(ctx, req.InvalidationPath)
	return result, nil
}

// resolveBlobID picks the blob reference for deletion: an explicitly
// supplied id wins, then the record's persisted BlobID, then parsing the
// stored URL (fallback for records created before blob_id was persisted).
func (s *service) resolveBlobID(req DeleteFileRequest, file *FileRecord) uuid.UUID {
	if req.BlobID != uuid.Nil {
		return req.BlobID
	}
	if file.BlobID != uuid.Nil {
		return file.BlobID
	}
	if id, err := BlobIDFromURL(file.URL); err == nil {
		return id
	}
	s.logger.Warn("no blob reference resolvable for file", "file_id", file.ID.String(), "url", file.URL)
	return uuid.Nil
}

func (s *service) DownloadFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	file, err := s.metadata.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, err := s.blobs.Download(ctx, file.BlobID.String())
	if err != nil {
		return nil, &StorageError{Key: file.BlobID.String(), Op: "download", Err: err}
	}
	return rc, nil
}

// invalidate fires the external invalidation hook once after a committed
// mutation. Hook failures are logged, not propagated: the durable change
// already happened.
func (s *service) invalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.invalidator.Invalidate(ctx, path); err != nil {
		s.logger.Warn("cache invalidation failed", "path", path, "error", err)
	}
}
