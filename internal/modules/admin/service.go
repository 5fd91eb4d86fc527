// Package admin is the administrative view over file records: the same
// operations as the files service with the admin role standing in for
// ownership. Lifecycle rules still apply.
package admin

import (
	"context"

	"filemeta/internal/domain"
	"filemeta/internal/modules/access"
	"filemeta/internal/modules/files"
)

type Service struct {
	files   *files.Service
	store   FileStore
	gateway *access.Gateway
}

// NewService wraps fileService with the privileged policy.
func NewService(fileService *files.Service, store FileStore, gateway *access.Gateway) *Service {
	return &Service{
		files:   fileService.WithPolicy(gateway.PrivilegedPolicy()),
		store:   store,
		gateway: gateway,
	}
}

func (s *Service) Get(ctx context.Context, fileID string, actor *domain.User) (*domain.FileRecord, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	return s.files.Get(ctx, fileID, actor)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string, actor *domain.User) ([]domain.FileRecord, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	return s.files.ListByOwner(ctx, ownerID, actor)
}

func (s *Service) UpdateStatus(ctx context.Context, fileID, statusName string, actor *domain.User) (*domain.FileRecord, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	return s.files.UpdateStatus(ctx, fileID, statusName, actor)
}

func (s *Service) Delete(ctx context.Context, fileID string, actor *domain.User) error {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return err
	}
	return s.files.Delete(ctx, fileID, actor)
}

func (s *Service) UpdateStorageKey(ctx context.Context, fileID, newKey string, actor *domain.User) (*domain.FileRecord, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	return s.files.UpdateStorageKey(ctx, fileID, newKey, actor)
}

// StatisticsFor counts the records of any owner.
func (s *Service) StatisticsFor(ctx context.Context, ownerID string, actor *domain.User) (domain.FileStatistics, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return domain.FileStatistics{}, err
	}
	return s.files.StatisticsFor(ctx, ownerID)
}

// GetByStatus lists records in the named status across all owners. The name
// is parsed like a status update request.
func (s *Service) GetByStatus(ctx context.Context, statusName string, actor *domain.User) ([]domain.FileRecord, error) {
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	status, err := domain.ParseFileStatus(statusName)
	if err != nil {
		return nil, err
	}
	return s.store.FindByStatus(ctx, status)
}

func (s *Service) GlobalStatistics(ctx context.Context, actor *domain.User) (domain.FileStatistics, error) {
	var st domain.FileStatistics
	if err := s.gateway.RequirePrivileged(actor); err != nil {
		return st, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return st, err
	}
	for _, status := range domain.AllFileStatuses {
		n, err := s.store.CountByStatus(ctx, status)
		if err != nil {
			return st, err
		}
		st.Add(status, n)
	}
	st.Total = total
	return st, nil
}
