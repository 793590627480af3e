package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-drive/pkg/simpledrive"
	"github.com/tendant/simple-drive/pkg/simpledrive/query"
)

// Repository implements simpledrive.MetadataStore using in-memory storage
type Repository struct {
	mu    sync.RWMutex
	files map[uuid.UUID]*simpledrive.FileRecord
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		files: make(map[uuid.UUID]*simpledrive.FileRecord),
	}
}

func (r *Repository) CreateFile(ctx context.Context, file *simpledrive.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	fileCopy := *file
	r.files[file.ID] = &fileCopy

	return nil
}

func (r *Repository) GetFile(ctx context.Context, id uuid.UUID) (*simpledrive.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, exists := r.files[id]
	if !exists {
		return nil, simpledrive.ErrFileNotFound
	}

	// Return a copy to prevent external modifications
	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) UpdateFile(ctx context.Context, file *simpledrive.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[file.ID]; !exists {
		return simpledrive.ErrFileNotFound
	}

	fileCopy := *file
	r.files[file.ID] = &fileCopy

	return nil
}

func (r *Repository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[id]; !exists {
		return simpledrive.ErrFileNotFound
	}

	delete(r.files, id)
	return nil
}

// ListFiles evaluates the predicate list over all stored records: filter
// predicates first, then ordering, then the limit cap.
func (r *Repository) ListFiles(ctx context.Context, preds []query.Predicate) ([]*simpledrive.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpledrive.FileRecord, 0)
	for _, file := range r.files {
		if matches(file, preds) {
			fileCopy := *file
			result = append(result, &fileCopy)
		}
	}

	for _, p := range preds {
		switch p.Op {
		case query.OpOrderAsc:
			sortFiles(result, p.Field, true)
		case query.OpOrderDesc:
			sortFiles(result, p.Field, false)
		}
	}

	for _, p := range preds {
		if p.Op == query.OpLimit && p.Limit > 0 && p.Limit < len(result) {
			result = result[:p.Limit]
		}
	}

	return result, nil
}

func matches(file *simpledrive.FileRecord, preds []query.Predicate) bool {
	for _, p := range preds {
		switch p.Op {
		case query.OpAccess:
			if !matchesAccess(file, p.Values) {
				return false
			}
		case query.OpOwnerEq:
			if len(p.Values) != 1 || file.OwnerID.String() != p.Values[0] {
				return false
			}
		case query.OpTypeIn:
			if !containsString(p.Values, string(file.Type)) {
				return false
			}
		case query.OpNameContains:
			if len(p.Values) != 1 ||
				!strings.Contains(strings.ToLower(file.Name), strings.ToLower(p.Values[0])) {
				return false
			}
		}
	}
	return true
}

// matchesAccess implements the combined visibility disjunction: owner
// equality OR the user's email listed in the share set.
func matchesAccess(file *simpledrive.FileRecord, values []string) bool {
	if len(values) != 2 {
		return false
	}
	userID, email := values[0], values[1]
	if file.OwnerID.String() == userID {
		return true
	}
	return email != "" && containsString(file.Users, email)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func sortFiles(files []*simpledrive.FileRecord, field string, asc bool) {
	less := func(i, j int) bool { return files[i].CreatedAt.Before(files[j].CreatedAt) }

	switch field {
	case query.FieldUpdatedAt:
		less = func(i, j int) bool { return files[i].UpdatedAt.Before(files[j].UpdatedAt) }
	case query.FieldName:
		less = func(i, j int) bool { return files[i].Name < files[j].Name }
	case query.FieldSize:
		less = func(i, j int) bool { return files[i].Size < files[j].Size }
	}

	if asc {
		sort.SliceStable(files, less)
	} else {
		sort.SliceStable(files, func(i, j int) bool { return less(j, i) })
	}
}
