package simpledrive

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// DefaultFileURLBase is used when no base is configured on the service.
const DefaultFileURLBase = "/storage"

// The URL format is a compatibility surface: stored URLs must remain
// parseable by BlobIDFromURL, so changing FileURL requires a migration of
// existing records.
var fileURLPattern = regexp.MustCompile(`/files/([^/]+)/view`)

// FileURL derives the public view URL for a blob. It is a pure function of
// the blob id; the stored url column is always recomputable from blob_id.
func FileURL(base string, blobID uuid.UUID) string {
	if base == "" {
		base = DefaultFileURLBase
	}
	return fmt.Sprintf("%s/files/%s/view", base, blobID)
}

// BlobIDFromURL recovers the blob id embedded in a view URL.
//
// Deprecated as a primary path: records persist BlobID as a first-class
// field, and this inverse exists only as a fallback for records written
// before that field existed.
func BlobIDFromURL(url string) (uuid.UUID, error) {
	m := fileURLPattern.FindStringSubmatch(url)
	if m == nil {
		return uuid.Nil, fmt.Errorf("no blob reference in url %q", url)
	}
	id, err := uuid.Parse(m[1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid blob reference in url %q: %w", url, err)
	}
	return id, nil
}
