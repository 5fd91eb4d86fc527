package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"filemeta/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileRepository is the gorm-backed record store. Updates are guarded by the
// version column: a write whose version no longer matches affects no rows and
// is reported as domain.ErrConflict.
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

type fileModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	FileName    string    `gorm:"column:file_name;size:255;not null"`
	ContentType string    `gorm:"column:content_type;size:100;not null"`
	Size        int64     `gorm:"column:size;not null"`
	OwnerID     string    `gorm:"column:owner_id;size:36;not null;index"`
	Status      string    `gorm:"column:status;size:20;not null;index"`
	StorageKey  string    `gorm:"column:storage_key;size:500;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	Version     int64     `gorm:"column:version;not null;default:1"`
}

func (fileModel) TableName() string { return "file_metadata" }

func toDomainFile(m fileModel) domain.FileRecord {
	return domain.FileRecord{
		ID:          m.ID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Size:        m.Size,
		OwnerID:     m.OwnerID,
		Status:      domain.FileStatus(m.Status),
		StorageKey:  m.StorageKey,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Version:     m.Version,
	}
}

func toFileModel(f *domain.FileRecord) fileModel {
	return fileModel{
		ID:          f.ID,
		FileName:    f.FileName,
		ContentType: f.ContentType,
		Size:        f.Size,
		OwnerID:     f.OwnerID,
		Status:      string(f.Status),
		StorageKey:  f.StorageKey,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		Version:     f.Version,
	}
}

// Save inserts f when it has no ID yet, otherwise updates the row whose
// version equals f.Version. The returned record carries the stored state.
func (r *FileRepository) Save(ctx context.Context, f *domain.FileRecord) (*domain.FileRecord, error) {
	if f.ID == "" {
		return r.insert(ctx, f)
	}
	return r.update(ctx, f)
}

func (r *FileRepository) insert(ctx context.Context, f *domain.FileRecord) (*domain.FileRecord, error) {
	m := toFileModel(f)
	m.ID = uuid.NewString()
	m.Version = 1
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.UpdatedAt.Before(m.CreatedAt) {
		m.UpdatedAt = m.CreatedAt
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: storage key %q already in use", domain.ErrConflict, m.StorageKey)
		}
		return nil, err
	}

	out := toDomainFile(m)
	return &out, nil
}

func (r *FileRepository) update(ctx context.Context, f *domain.FileRecord) (*domain.FileRecord, error) {
	m := toFileModel(f)
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&fileModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]any{
			"file_name":    m.FileName,
			"content_type": m.ContentType,
			"size":         m.Size,
			"status":       m.Status,
			"storage_key":  m.StorageKey,
			"updated_at":   m.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return nil, fmt.Errorf("%w: storage key %q already in use", domain.ErrConflict, m.StorageKey)
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, m.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: file %s was modified concurrently (version %d is stale)", domain.ErrConflict, m.ID, m.Version)
	}

	return r.FindByID(ctx, m.ID)
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*domain.FileRecord, error) {
	var m fileModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	out := toDomainFile(m)
	return &out, nil
}

func (r *FileRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.FileRecord, error) {
	return r.find(ctx, "owner_id = ?", ownerID)
}

func (r *FileRepository) FindByStatus(ctx context.Context, status domain.FileStatus) ([]domain.FileRecord, error) {
	return r.find(ctx, "status = ?", string(status))
}

func (r *FileRepository) find(ctx context.Context, query string, arg any) ([]domain.FileRecord, error) {
	var rows []fileModel
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FileRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainFile(m))
	}
	return out, nil
}

// ExistsByStorageKeyExcluding reports whether a record other than excludeID
// holds key. An empty excludeID matches every record.
func (r *FileRepository) ExistsByStorageKeyExcluding(ctx context.Context, key, excludeID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&fileModel{}).
		Where("storage_key = ? AND id <> ?", key, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *FileRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&fileModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&fileModel{}).Count(&n).Error
	return n, err
}

func (r *FileRepository) CountByStatus(ctx context.Context, status domain.FileStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&fileModel{}).Where("status = ?", string(status)).Count(&n).Error
	return n, err
}

func (r *FileRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&fileModel{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}
