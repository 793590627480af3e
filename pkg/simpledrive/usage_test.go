package simpledrive_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-drive/pkg/simpledrive"
	memoryrepo "github.com/tendant/simple-drive/pkg/simpledrive/repo/memory"
	memorystorage "github.com/tendant/simple-drive/pkg/simpledrive/storage/memory"
)

func seedRecord(t *testing.T, repo *memoryrepo.Repository, ownerID uuid.UUID, fileType simpledrive.FileType, size int64, updatedAt time.Time) {
	t.Helper()

	err := repo.CreateFile(context.Background(), &simpledrive.FileRecord{
		ID:        uuid.New(),
		BlobID:    uuid.New(),
		Name:      "seed",
		Type:      fileType,
		Size:      size,
		OwnerID:   ownerID,
		AccountID: ownerID,
		Users:     []string{},
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	})
	require.NoError(t, err)
}

func newUsageService(t *testing.T, repo *memoryrepo.Repository) simpledrive.Service {
	t.Helper()

	svc, err := simpledrive.New(
		simpledrive.WithMetadataStore(repo),
		simpledrive.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)
	return svc
}

func TestGetTotalSpaceUsed(t *testing.T) {
	repo := memoryrepo.New()
	svc := newUsageService(t, repo)
	ownerID := uuid.New()

	early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	seedRecord(t, repo, ownerID, simpledrive.FileTypeImage, 100, early)
	seedRecord(t, repo, ownerID, simpledrive.FileTypeImage, 50, late)
	seedRecord(t, repo, ownerID, simpledrive.FileTypeDocument, 200, early)

	report, err := svc.GetTotalSpaceUsed(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, int64(150), report.Image.Size)
	assert.Equal(t, late, report.Image.LatestDate)
	assert.Equal(t, int64(200), report.Document.Size)
	assert.Equal(t, early, report.Document.LatestDate)
	assert.Equal(t, int64(350), report.Used)
	assert.Equal(t, simpledrive.TotalStorageBytes, report.All)

	assert.Zero(t, report.Video.Size)
	assert.Zero(t, report.Audio.Size)
	assert.Zero(t, report.Other.Size)
	assert.True(t, report.Video.LatestDate.IsZero())
}

func TestGetTotalSpaceUsedExcludesSharedRecords(t *testing.T) {
	repo := memoryrepo.New()
	svc := newUsageService(t, repo)
	ownerID := uuid.New()
	otherID := uuid.New()

	seedRecord(t, repo, ownerID, simpledrive.FileTypeVideo, 500, time.Now())

	// Owned by someone else but shared with the caller: still excluded.
	err := repo.CreateFile(context.Background(), &simpledrive.FileRecord{
		ID:        uuid.New(),
		BlobID:    uuid.New(),
		Name:      "shared",
		Type:      simpledrive.FileTypeVideo,
		Size:      999,
		OwnerID:   otherID,
		AccountID: otherID,
		Users:     []string{"caller@example.com"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	report, err := svc.GetTotalSpaceUsed(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), report.Used)
	assert.Equal(t, int64(500), report.Video.Size)
}

func TestGetTotalSpaceUsedEmptyOwner(t *testing.T) {
	repo := memoryrepo.New()
	svc := newUsageService(t, repo)

	report, err := svc.GetTotalSpaceUsed(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, report.Used)
	assert.Equal(t, simpledrive.TotalStorageBytes, report.All)
}

func TestGetTotalSpaceUsedRejectsUnknownType(t *testing.T) {
	repo := memoryrepo.New()
	svc := newUsageService(t, repo)
	ownerID := uuid.New()

	seedRecord(t, repo, ownerID, simpledrive.FileType("archive"), 100, time.Now())

	_, err := svc.GetTotalSpaceUsed(context.Background(), ownerID)
	require.Error(t, err)

	var integrityErr *simpledrive.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "type", integrityErr.Field)
	assert.Equal(t, "archive", integrityErr.Value)
}

func TestGetTotalSpaceUsedLatestDateTieKeepsFirstSeen(t *testing.T) {
	repo := memoryrepo.New()
	svc := newUsageService(t, repo)
	ownerID := uuid.New()

	when := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	seedRecord(t, repo, ownerID, simpledrive.FileTypeAudio, 10, when)
	seedRecord(t, repo, ownerID, simpledrive.FileTypeAudio, 20, when)

	report, err := svc.GetTotalSpaceUsed(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, int64(30), report.Audio.Size)
	assert.Equal(t, when, report.Audio.LatestDate)
}
