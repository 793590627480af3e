package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-drive/pkg/simpledrive"
)

// maxUploadBytes caps a single multipart upload body.
const maxUploadBytes = 512 << 20 // 512 MiB

// FilesHandler handles file upload and management API endpoints using pkg/simpledrive
type FilesHandler struct {
	service simpledrive.Service
}

func NewFilesHandler(service simpledrive.Service) *FilesHandler {
	return &FilesHandler{service: service}
}

// Routes returns the router for files endpoints. Callers mount it behind
// the token verifier and CurrentUserFromToken.
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/files", h.UploadFile)
	r.Get("/files", h.ListFiles)
	r.Get("/files/{file_id}", h.GetFile)
	r.Get("/files/{file_id}/download", h.DownloadFile)
	r.Patch("/files/{file_id}/rename", h.RenameFile)
	r.Patch("/files/{file_id}/share", h.UpdateFileUsers)
	r.Delete("/files/{file_id}", h.DeleteFile)
	r.Get("/usage", h.GetUsage)
	return r
}

// RenameFileRequest represents the request to rename a file
type RenameFileRequest struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Path      string `json:"path,omitempty"`
}

// UpdateFileUsersRequest represents the request to replace a file's share list
type UpdateFileUsersRequest struct {
	Emails []string `json:"emails"`
	Path   string   `json:"path,omitempty"`
}

// UploadFile accepts a multipart upload and creates the blob plus its
// metadata record
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		http.Error(w, "no authenticated user", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Failed to read upload form", "error", err)
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	accountID := user.ID
	if raw := r.FormValue("account_id"); raw != "" {
		accountID, err = uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}
	}

	record, err := h.service.UploadFile(r.Context(), simpledrive.UploadFileRequest{
		Data:             file,
		FileName:         header.Filename,
		OwnerID:          user.ID,
		AccountID:        accountID,
		InvalidationPath: r.FormValue("path"),
	})
	if err != nil {
		slog.Error("Failed to upload file", "file_name", header.Filename, "error", err)
		writeServiceError(w, err)
		return
	}

	slog.Info("File uploaded", "file_id", record.ID.String(), "type", record.Type, "size", record.Size)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

// ListFiles returns the records visible to the current user
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		http.Error(w, "no authenticated user", http.StatusUnauthorized)
		return
	}

	var types []simpledrive.FileType
	for _, raw := range r.URL.Query()["type"] {
		t := simpledrive.FileType(raw)
		if !t.Valid() {
			http.Error(w, "invalid file type filter", http.StatusBadRequest)
			return
		}
		types = append(types, t)
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	files, err := h.service.ListFiles(r.Context(), simpledrive.ListFilesRequest{
		User:       user,
		Types:      types,
		SearchText: r.URL.Query().Get("search"),
		Sort:       r.URL.Query().Get("sort"),
		Limit:      limit,
	})
	if err != nil {
		slog.Error("Failed to list files", "user_id", user.ID.String(), "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, files)
}

// GetFile returns one file record
func (h *FilesHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}

	file, err := h.service.GetFile(r.Context(), fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, file)
}

// DownloadFile streams the blob bytes for a file record
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}

	file, err := h.service.GetFile(r.Context(), fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rc, err := h.service.DownloadFile(r.Context(), fileID)
	if err != nil {
		slog.Error("Failed to download file", "file_id", fileID.String(), "error", err)
		writeServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream file", "file_id", fileID.String(), "error", err)
	}
}

// RenameFile updates the stored display name only
func (h *FilesHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}

	var req RenameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	file, err := h.service.RenameFile(r.Context(), simpledrive.RenameFileRequest{
		FileID:           fileID,
		Name:             req.Name,
		Extension:        req.Extension,
		InvalidationPath: req.Path,
	})
	if err != nil {
		slog.Error("Failed to rename file", "file_id", fileID.String(), "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, file)
}

// UpdateFileUsers replaces the share list wholesale
func (h *FilesHandler) UpdateFileUsers(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}

	var req UpdateFileUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := h.service.UpdateFileUsers(r.Context(), simpledrive.UpdateFileUsersRequest{
		FileID:           fileID,
		Emails:           req.Emails,
		InvalidationPath: req.Path,
	})
	if err != nil {
		slog.Error("Failed to update file users", "file_id", fileID.String(), "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, file)
}

// DeleteFile removes the metadata record and then the blob
func (h *FilesHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parseFileID(w, r)
	if !ok {
		return
	}

	blobID := uuid.Nil
	if raw := r.URL.Query().Get("blob_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid blob id", http.StatusBadRequest)
			return
		}
		blobID = parsed
	}

	result, err := h.service.DeleteFile(r.Context(), simpledrive.DeleteFileRequest{
		FileID:           fileID,
		BlobID:           blobID,
		InvalidationPath: r.URL.Query().Get("path"),
	})
	if err != nil {
		slog.Error("Failed to delete file", "file_id", fileID.String(), "error", err)
		writeServiceError(w, err)
		return
	}

	slog.Info("File deleted", "file_id", fileID.String(), "orphaned_blob", result.OrphanedBlob)
	render.JSON(w, r, result)
}

// GetUsage reports per-type storage consumption for the current user
func (h *FilesHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		http.Error(w, "no authenticated user", http.StatusUnauthorized)
		return
	}

	report, err := h.service.GetTotalSpaceUsed(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to compute usage", "user_id", user.ID.String(), "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, report)
}

func parseFileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "file_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		slog.Error("Invalid file ID", "file_id", raw, "error", err)
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var integrity *simpledrive.DataIntegrityError

	switch {
	case errors.Is(err, simpledrive.ErrFileNotFound), errors.Is(err, simpledrive.ErrBlobNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, simpledrive.ErrUnauthenticated):
		http.Error(w, "no authenticated user", http.StatusUnauthorized)
	case errors.As(err, &integrity):
		http.Error(w, "stored data is inconsistent", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
