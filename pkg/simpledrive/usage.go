package simpledrive

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-drive/pkg/simpledrive/query"
)

// GetTotalSpaceUsed lists every record owned by ownerID and folds it into
// per-type size and recency totals. Usage is an ownership concept:
// records merely shared with the user are excluded.
//
// A stored type outside the enumerated set is a data-integrity fault and
// fails the whole computation; silently skipping or miscategorizing a
// record would hide corruption.
func (s *service) GetTotalSpaceUsed(ctx context.Context, ownerID uuid.UUID) (*UsageReport, error) {
	files, err := s.metadata.ListFiles(ctx, query.BuildOwnedBy(ownerID.String()))
	if err != nil {
		return nil, err
	}

	report := &UsageReport{All: TotalStorageBytes}
	for _, file := range files {
		bucket, ok := report.bucket(file.Type)
		if !ok {
			return nil, &DataIntegrityError{FileID: file.ID, Field: "type", Value: string(file.Type)}
		}

		bucket.Size += file.Size
		report.Used += file.Size

		// Strictly-after comparison: ties keep the first-seen value.
		if file.UpdatedAt.After(bucket.LatestDate) {
			bucket.LatestDate = file.UpdatedAt
		}
	}

	return report, nil
}
