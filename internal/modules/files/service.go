package files

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"filemeta/internal/domain"
	"filemeta/internal/lifecycle"
	"filemeta/internal/modules/access"
)

// NewFile is the input of Create.
type NewFile struct {
	FileName    string
	ContentType string
	Size        int64
	OwnerID     string
}

// Service owns every read and mutation of file records. Per-record checks go
// through policy: ownership for regular callers, the admin role for the
// administrative view (see WithPolicy). Status changes always go through the
// lifecycle regardless of policy.
type Service struct {
	files   FileRepository
	gateway *access.Gateway
	keys    KeyGenerator
	events  EventPublisher
	policy  access.Policy
	now     func() time.Time
}

func NewService(files FileRepository, gateway *access.Gateway, keys KeyGenerator, events EventPublisher) *Service {
	return &Service{
		files:   files,
		gateway: gateway,
		keys:    keys,
		events:  events,
		policy:  gateway.OwnershipPolicy("file"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithPolicy returns a copy of s that authorizes per-record operations with p.
func (s *Service) WithPolicy(p access.Policy) *Service {
	cp := *s
	cp.policy = p
	return &cp
}

func (s *Service) Create(ctx context.Context, in NewFile, actor *domain.User) (*domain.FileRecord, error) {
	if err := s.gateway.RequireRequestOwnerConsistency(in.OwnerID, actor); err != nil {
		return nil, err
	}
	if err := validateNewFile(in); err != nil {
		filesCreatedTotal.WithLabelValues(resultRejected).Inc()
		return nil, err
	}

	now := s.now()
	rec := &domain.FileRecord{
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Size:        in.Size,
		OwnerID:     in.OwnerID,
		Status:      domain.FileUploaded,
		StorageKey:  s.keys.Generate(in.FileName, in.OwnerID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.files.Save(ctx, rec)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			filesCreatedTotal.WithLabelValues(resultConflict).Inc()
		}
		return nil, err
	}
	filesCreatedTotal.WithLabelValues(resultApplied).Inc()

	log.Printf("file_created file_id=%s owner_id=%s storage_key=%s size=%d", saved.ID, saved.OwnerID, saved.StorageKey, saved.Size)
	if s.events != nil {
		s.events.FileCreated(*saved)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, fileID string, actor *domain.User) (*domain.FileRecord, error) {
	return s.load(ctx, fileID, actor)
}

// ListByOwner returns every record of ownerID. The caller decides whose
// listing actor may see: handlers pass the actor's own id, the administrative
// view checks privilege first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, actor *domain.User) ([]domain.FileRecord, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no acting user", domain.ErrAccessDenied)
	}
	return s.files.FindByOwner(ctx, ownerID)
}

func (s *Service) UpdateStatus(ctx context.Context, fileID, statusName string, actor *domain.User) (*domain.FileRecord, error) {
	rec, err := s.load(ctx, fileID, actor)
	if err != nil {
		return nil, err
	}

	next, err := domain.ParseFileStatus(statusName)
	if err != nil {
		return nil, err
	}

	from := rec.Status
	if err := lifecycle.Validate(from, next); err != nil {
		statusTransitionsTotal.WithLabelValues(from.String(), next.String(), resultRejected).Inc()
		return nil, err
	}

	rec.Status = next
	rec.UpdatedAt = s.touch(rec)

	saved, err := s.files.Save(ctx, rec)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			statusTransitionsTotal.WithLabelValues(from.String(), next.String(), resultConflict).Inc()
		}
		return nil, err
	}
	statusTransitionsTotal.WithLabelValues(from.String(), next.String(), resultApplied).Inc()

	log.Printf("file_status_changed file_id=%s from=%s to=%s actor_id=%s", saved.ID, from, saved.Status, actor.ID)
	if s.events != nil {
		s.events.FileStatusChanged(*saved, from)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, fileID string, actor *domain.User) error {
	rec, err := s.load(ctx, fileID, actor)
	if err != nil {
		return err
	}
	if err := s.files.DeleteByID(ctx, rec.ID); err != nil {
		return err
	}

	log.Printf("file_deleted file_id=%s owner_id=%s actor_id=%s", rec.ID, rec.OwnerID, actor.ID)
	if s.events != nil {
		s.events.FileDeleted(*rec)
	}
	return nil
}

// UpdateStorageKey re-points a record at another blob. Only privileged
// actors may call it, whatever the policy of s.
func (s *Service) UpdateStorageKey(ctx context.Context, fileID, newKey string, actor *domain.User) (*domain.FileRecord, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	if err := validateStorageKey(newKey); err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, fileID, actor)
	if err != nil {
		return nil, err
	}

	taken, err := s.files.ExistsByStorageKeyExcluding(ctx, newKey, rec.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: storage key %q already in use", domain.ErrConflict, newKey)
	}

	old := rec.StorageKey
	rec.StorageKey = newKey
	rec.UpdatedAt = s.touch(rec)

	saved, err := s.files.Save(ctx, rec)
	if err != nil {
		return nil, err
	}
	log.Printf("file_storage_key_changed file_id=%s old_key=%s new_key=%s actor_id=%s", saved.ID, old, saved.StorageKey, actor.ID)
	return saved, nil
}

// StatisticsFor counts the records of ownerID per status.
func (s *Service) StatisticsFor(ctx context.Context, ownerID string) (domain.FileStatistics, error) {
	var st domain.FileStatistics
	recs, err := s.files.FindByOwner(ctx, ownerID)
	if err != nil {
		return st, err
	}
	for _, r := range recs {
		st.Add(r.Status, 1)
	}
	return st, nil
}

func (s *Service) load(ctx context.Context, fileID string, actor *domain.User) (*domain.FileRecord, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no acting user", domain.ErrAccessDenied)
	}
	rec, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.policy(actor, rec.OwnerID); err != nil {
		return nil, err
	}
	return rec, nil
}

// touch returns the new update timestamp, never earlier than creation.
func (s *Service) touch(rec *domain.FileRecord) time.Time {
	now := s.now()
	if now.Before(rec.CreatedAt) {
		return rec.CreatedAt
	}
	return now
}

func validateNewFile(in NewFile) error {
	if err := validateText("file name", in.FileName, domain.MaxFileNameLen); err != nil {
		return err
	}
	if err := validateText("content type", in.ContentType, domain.MaxContentTypeLen); err != nil {
		return err
	}
	if in.Size <= 0 {
		return fmt.Errorf("%w: file size must be positive, got %d", domain.ErrInvalidArgument, in.Size)
	}
	if in.Size > domain.MaxFileSize {
		return fmt.Errorf("%w: file size %d exceeds %d bytes", domain.ErrInvalidArgument, in.Size, int64(domain.MaxFileSize))
	}
	return nil
}

func validateStorageKey(key string) error {
	return validateText("storage key", key, domain.MaxStorageKeyLen)
}

func validateText(field, v string, max int) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidArgument, field)
	}
	if n := utf8.RuneCountInString(v); n > max {
		return fmt.Errorf("%w: %s cannot exceed %d characters (got %d)", domain.ErrInvalidArgument, field, max, n)
	}
	return nil
}
