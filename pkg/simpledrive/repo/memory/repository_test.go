package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-drive/pkg/simpledrive"
	"github.com/tendant/simple-drive/pkg/simpledrive/query"
	memoryrepo "github.com/tendant/simple-drive/pkg/simpledrive/repo/memory"
)

func newRecord(ownerID uuid.UUID, name string, fileType simpledrive.FileType, size int64, createdAt time.Time) *simpledrive.FileRecord {
	return &simpledrive.FileRecord{
		ID:        uuid.New(),
		BlobID:    uuid.New(),
		Name:      name,
		Type:      fileType,
		Size:      size,
		OwnerID:   ownerID,
		AccountID: ownerID,
		Users:     []string{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestRepositoryCRUD(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()

	record := newRecord(uuid.New(), "a.txt", simpledrive.FileTypeDocument, 10, time.Now())
	require.NoError(t, repo.CreateFile(ctx, record))

	got, err := repo.GetFile(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Name, got.Name)

	// Returned copies must not alias the stored record.
	got.Name = "mutated"
	again, err := repo.GetFile(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", again.Name)

	record.Name = "b.txt"
	require.NoError(t, repo.UpdateFile(ctx, record))
	updated, err := repo.GetFile(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", updated.Name)

	require.NoError(t, repo.DeleteFile(ctx, record.ID))
	_, err = repo.GetFile(ctx, record.ID)
	assert.ErrorIs(t, err, simpledrive.ErrFileNotFound)
}

func TestRepositoryNotFound(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()
	missing := uuid.New()

	_, err := repo.GetFile(ctx, missing)
	assert.ErrorIs(t, err, simpledrive.ErrFileNotFound)

	err = repo.UpdateFile(ctx, &simpledrive.FileRecord{ID: missing})
	assert.ErrorIs(t, err, simpledrive.ErrFileNotFound)

	err = repo.DeleteFile(ctx, missing)
	assert.ErrorIs(t, err, simpledrive.ErrFileNotFound)
}

func TestListFilesAccess(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()

	owned := newRecord(owner, "mine.txt", simpledrive.FileTypeDocument, 1, time.Now())
	require.NoError(t, repo.CreateFile(ctx, owned))

	shared := newRecord(other, "theirs.txt", simpledrive.FileTypeDocument, 1, time.Now())
	shared.Users = []string{"me@example.com"}
	require.NoError(t, repo.CreateFile(ctx, shared))

	private := newRecord(other, "private.txt", simpledrive.FileTypeDocument, 1, time.Now())
	require.NoError(t, repo.CreateFile(ctx, private))

	files, err := repo.ListFiles(ctx, query.Build(owner.String(), "me@example.com", query.Options{}))
	require.NoError(t, err)

	require.Len(t, files, 2)
	ids := []uuid.UUID{files[0].ID, files[1].ID}
	assert.Contains(t, ids, owned.ID)
	assert.Contains(t, ids, shared.ID)
}

func TestListFilesEmptyEmailDoesNotMatchShares(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()

	record := newRecord(uuid.New(), "odd.txt", simpledrive.FileTypeDocument, 1, time.Now())
	record.Users = []string{""}
	require.NoError(t, repo.CreateFile(ctx, record))

	files, err := repo.ListFiles(ctx, query.Build(uuid.New().String(), "", query.Options{}))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFilesFiltersSortAndLimit(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()
	owner := uuid.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateFile(ctx, newRecord(owner, "Cat-photo.jpg", simpledrive.FileTypeImage, 300, base)))
	require.NoError(t, repo.CreateFile(ctx, newRecord(owner, "cat-icon.png", simpledrive.FileTypeImage, 10, base.Add(time.Hour))))
	require.NoError(t, repo.CreateFile(ctx, newRecord(owner, "catalogue.pdf", simpledrive.FileTypeDocument, 20, base.Add(2*time.Hour))))
	require.NoError(t, repo.CreateFile(ctx, newRecord(owner, "dog.jpg", simpledrive.FileTypeImage, 50, base.Add(3*time.Hour))))

	files, err := repo.ListFiles(ctx, query.Build(owner.String(), "o@example.com", query.Options{
		Types:      []string{"image"},
		SearchText: "CAT",
		Sort:       "size-asc",
	}))
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "cat-icon.png", files[0].Name)
	assert.Equal(t, "Cat-photo.jpg", files[1].Name)
}

func TestListFilesDefaultSortNewestFirst(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()
	owner := uuid.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest := newRecord(owner, "oldest", simpledrive.FileTypeOther, 1, base)
	newest := newRecord(owner, "newest", simpledrive.FileTypeOther, 1, base.Add(time.Hour))
	require.NoError(t, repo.CreateFile(ctx, oldest))
	require.NoError(t, repo.CreateFile(ctx, newest))

	files, err := repo.ListFiles(ctx, query.Build(owner.String(), "", query.Options{}))
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "newest", files[0].Name)
	assert.Equal(t, "oldest", files[1].Name)
}

func TestListFilesLimit(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()
	owner := uuid.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateFile(ctx,
			newRecord(owner, "f", simpledrive.FileTypeOther, int64(i), base.Add(time.Duration(i)*time.Minute))))
	}

	files, err := repo.ListFiles(ctx, query.Build(owner.String(), "", query.Options{Limit: 3}))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestListFilesOwnedBy(t *testing.T) {
	repo := memoryrepo.New()
	ctx := context.Background()
	owner := uuid.New()

	mine := newRecord(owner, "mine", simpledrive.FileTypeOther, 1, time.Now())
	require.NoError(t, repo.CreateFile(ctx, mine))

	sharedWithMe := newRecord(uuid.New(), "shared", simpledrive.FileTypeOther, 1, time.Now())
	sharedWithMe.Users = []string{"me@example.com"}
	require.NoError(t, repo.CreateFile(ctx, sharedWithMe))

	files, err := repo.ListFiles(ctx, query.BuildOwnedBy(owner.String()))
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, mine.ID, files[0].ID)
}
