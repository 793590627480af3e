package simpledrive

import (
	"time"

	"github.com/google/uuid"
)

// FileType is the domain type for file categories derived from a file name.
type FileType string

// File type constants (typed).
const (
	FileTypeImage    FileType = "image"
	FileTypeDocument FileType = "document"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeOther    FileType = "other"
)

// Valid reports whether t is one of the enumerated file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeImage, FileTypeDocument, FileTypeVideo, FileTypeAudio, FileTypeOther:
		return true
	}
	return false
}

// TotalStorageBytes is the fixed per-owner storage ceiling reported by
// usage aggregation. It is reported, not enforced.
const TotalStorageBytes int64 = 2 * 1024 * 1024 * 1024 // 2 GiB

// FileRecord is the metadata entity representing one uploaded file.
//
// BlobID is the canonical reference to the file's bytes in the BlobStore
// and is always persisted at creation. URL is derived from BlobID by
// FileURL and must stay recomputable; it is never independent truth.
type FileRecord struct {
	ID        uuid.UUID `json:"id"`
	BlobID    uuid.UUID `json:"blob_id"`
	Name      string    `json:"name"`
	Extension string    `json:"extension,omitempty"`
	Type      FileType  `json:"type"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	OwnerID   uuid.UUID `json:"owner_id"`
	AccountID uuid.UUID `json:"account_id"`
	Users     []string  `json:"users"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentUser identifies the caller on whose behalf a read operation runs.
// Resolution (session, token) is the caller's concern, not this package's.
type CurrentUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// IsZero reports whether no user was resolved.
func (u CurrentUser) IsZero() bool {
	return u.ID == uuid.Nil && u.Email == ""
}

// UsageBucket holds the running totals for one file type.
type UsageBucket struct {
	Size       int64     `json:"size"`
	LatestDate time.Time `json:"latest_date"`
}

// UsageReport summarizes per-type storage consumption for one owner
// against the fixed capacity ceiling.
type UsageReport struct {
	Image    UsageBucket `json:"image"`
	Document UsageBucket `json:"document"`
	Video    UsageBucket `json:"video"`
	Audio    UsageBucket `json:"audio"`
	Other    UsageBucket `json:"other"`
	Used     int64       `json:"used"`
	All      int64       `json:"all"`
}

// bucket returns the bucket for a stored file type, or false when the type
// is outside the enumerated set.
func (r *UsageReport) bucket(t FileType) (*UsageBucket, bool) {
	switch t {
	case FileTypeImage:
		return &r.Image, true
	case FileTypeDocument:
		return &r.Document, true
	case FileTypeVideo:
		return &r.Video, true
	case FileTypeAudio:
		return &r.Audio, true
	case FileTypeOther:
		return &r.Other, true
	}
	return nil, false
}

// DeleteFileResult reports the outcome of a delete operation.
//
// OrphanedBlob is set when the metadata record was removed but the
// trailing blob deletion failed; the blob needs out-of-band cleanup.
type DeleteFileResult struct {
	Status       string `json:"status"`
	OrphanedBlob bool   `json:"orphaned_blob,omitempty"`
}
