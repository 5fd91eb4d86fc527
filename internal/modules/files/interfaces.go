package files

import (
	"context"

	"filemeta/internal/domain"
)

// FileRepository is the record store. Save inserts records without an ID and
// otherwise performs a version-checked update; lookups of missing rows return
// errors wrapping domain.ErrNotFound, key collisions and stale versions wrap
// domain.ErrConflict.
type FileRepository interface {
	Save(ctx context.Context, f *domain.FileRecord) (*domain.FileRecord, error)
	FindByID(ctx context.Context, id string) (*domain.FileRecord, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.FileRecord, error)
	FindByStatus(ctx context.Context, status domain.FileStatus) ([]domain.FileRecord, error)
	ExistsByStorageKeyExcluding(ctx context.Context, key, excludeID string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.FileStatus) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// KeyGenerator derives storage keys for new records.
type KeyGenerator interface {
	Generate(fileName, ownerID string) string
}

// EventPublisher is notified after a change has been persisted.
type EventPublisher interface {
	FileCreated(f domain.FileRecord)
	FileStatusChanged(f domain.FileRecord, from domain.FileStatus)
	FileDeleted(f domain.FileRecord)
}
