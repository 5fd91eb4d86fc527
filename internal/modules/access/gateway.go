// Package access resolves acting users and holds the ownership and privilege
// predicates applied by every file operation.
package access

import (
	"context"
	"fmt"
	"log"
	"strings"

	"filemeta/internal/domain"
)

// Policy authorizes actor against a resource owned by ownerID.
type Policy func(actor *domain.User, ownerID string) error

type Gateway struct {
	users UserLookup
}

func NewGateway(users UserLookup) *Gateway {
	return &Gateway{users: users}
}

// ResolveUser loads the user with the given id.
func (g *Gateway) ResolveUser(ctx context.Context, userID string) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrNotFound)
	}
	return g.users.FindByID(ctx, userID)
}

// UserExists never fails; lookup errors are logged and reported as false.
func (g *Gateway) UserExists(ctx context.Context, userID string) bool {
	if strings.TrimSpace(userID) == "" {
		return false
	}
	ok, err := g.users.ExistsByID(ctx, userID)
	if err != nil {
		log.Printf("user_exists_failed user_id=%s error=%q", userID, err)
		return false
	}
	return ok
}

func (g *Gateway) RequireOwnership(user *domain.User, resourceOwnerID, resourceKind string) error {
	if user == nil || user.ID == "" || user.ID != resourceOwnerID {
		return fmt.Errorf("%w: user %s is not the owner of this %s", domain.ErrAccessDenied, actorID(user), resourceKind)
	}
	return nil
}

func (g *Gateway) RequirePrivileged(user *domain.User) error {
	if !user.IsAdmin() {
		return fmt.Errorf("%w: only administrators can perform this action", domain.ErrAccessDenied)
	}
	return nil
}

// RequireRequestOwnerConsistency stops a caller from acting "for" another user.
func (g *Gateway) RequireRequestOwnerConsistency(requestedOwnerID string, user *domain.User) error {
	if user == nil || user.ID == "" || requestedOwnerID != user.ID {
		return fmt.Errorf("%w: you can only create files for yourself (request owner %s, current user %s)",
			domain.ErrAccessDenied, requestedOwnerID, actorID(user))
	}
	return nil
}

// OwnershipPolicy requires the actor to own the resource.
func (g *Gateway) OwnershipPolicy(resourceKind string) Policy {
	return func(actor *domain.User, ownerID string) error {
		return g.RequireOwnership(actor, ownerID, resourceKind)
	}
}

// PrivilegedPolicy ignores ownership and requires the admin role instead.
func (g *Gateway) PrivilegedPolicy() Policy {
	return func(actor *domain.User, _ string) error {
		return g.RequirePrivileged(actor)
	}
}

func actorID(u *domain.User) string {
	if u == nil || u.ID == "" {
		return "<anonymous>"
	}
	return u.ID
}
