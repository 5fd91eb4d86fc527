package access

import (
	"context"

	"filemeta/internal/domain"
)

// UserLookup is the external user directory. FindByID returns an error
// wrapping domain.ErrNotFound for unknown ids.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
