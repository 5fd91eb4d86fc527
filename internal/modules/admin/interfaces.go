package admin

import (
	"context"

	"filemeta/internal/domain"
)

// FileStore is the read side of the record store used for cross-owner queries.
type FileStore interface {
	FindByStatus(ctx context.Context, status domain.FileStatus) ([]domain.FileRecord, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.FileStatus) (int64, error)
}
