package files

import (
	"time"

	"filemeta/internal/domain"
	"filemeta/internal/lifecycle"
)

type CreateFileRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size"`
	OwnerID     string `json:"owner_id" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateStorageKeyRequest struct {
	StorageKey string `json:"storage_key" validate:"required"`
}

type FileResponse struct {
	ID                  string              `json:"id"`
	FileName            string              `json:"file_name"`
	ContentType         string              `json:"content_type"`
	Size                int64               `json:"size"`
	OwnerID             string              `json:"owner_id"`
	OwnerName           string              `json:"owner_name,omitempty"`
	Status              domain.FileStatus   `json:"status"`
	AllowedNextStatuses []domain.FileStatus `json:"allowed_next_statuses"`
	StorageKey          string              `json:"storage_key"`
	Version             int64               `json:"version"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ToFileResponse maps a record; ownerName may be empty when unknown.
func ToFileResponse(f *domain.FileRecord, ownerName string) FileResponse {
	next := lifecycle.Allowed(f.Status)
	if next == nil {
		next = []domain.FileStatus{}
	}
	return FileResponse{
		ID:                  f.ID,
		FileName:            f.FileName,
		ContentType:         f.ContentType,
		Size:                f.Size,
		OwnerID:             f.OwnerID,
		OwnerName:           ownerName,
		Status:              f.Status,
		AllowedNextStatuses: next,
		StorageKey:          f.StorageKey,
		Version:             f.Version,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
}

func ToFileResponses(recs []domain.FileRecord, ownerName string) []FileResponse {
	out := make([]FileResponse, 0, len(recs))
	for i := range recs {
		out = append(out, ToFileResponse(&recs[i], ownerName))
	}
	return out
}
