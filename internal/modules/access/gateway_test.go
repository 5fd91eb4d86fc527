package access

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"filemeta/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserLookup) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var (
	alice = &domain.User{ID: "alice", Name: "Alice", Roles: []string{domain.RoleUser}}
	root  = &domain.User{ID: "root", Name: "Root", Roles: []string{domain.RoleAdmin}}
)

func TestGateway_ResolveUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserLookup)
	users.On("FindByID", ctx, "alice").Return(alice, nil)
	users.On("FindByID", ctx, "ghost").Return(nil, fmt.Errorf("%w: user ghost", domain.ErrNotFound))
	g := NewGateway(users)

	u, err := g.ResolveUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = g.ResolveUser(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = g.ResolveUser(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	users.AssertExpectations(t)
}

func TestGateway_UserExists(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserLookup)
	users.On("ExistsByID", ctx, "alice").Return(true, nil)
	users.On("ExistsByID", ctx, "ghost").Return(false, nil)
	users.On("ExistsByID", ctx, "broken").Return(false, errors.New("db down"))
	g := NewGateway(users)

	assert.True(t, g.UserExists(ctx, "alice"))
	assert.False(t, g.UserExists(ctx, "ghost"))
	assert.False(t, g.UserExists(ctx, "broken"))
	assert.False(t, g.UserExists(ctx, ""))
}

func TestGateway_RequireOwnership(t *testing.T) {
	g := NewGateway(new(MockUserLookup))

	assert.NoError(t, g.RequireOwnership(alice, "alice", "file"))

	err := g.RequireOwnership(alice, "bob", "file")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Contains(t, err.Error(), "file")

	assert.ErrorIs(t, g.RequireOwnership(nil, "alice", "file"), domain.ErrAccessDenied)
	assert.ErrorIs(t, g.RequireOwnership(&domain.User{}, "", "file"), domain.ErrAccessDenied)

	// admins are not owners
	assert.ErrorIs(t, g.RequireOwnership(root, "alice", "file"), domain.ErrAccessDenied)
}

func TestGateway_RequirePrivileged(t *testing.T) {
	g := NewGateway(new(MockUserLookup))

	assert.NoError(t, g.RequirePrivileged(root))
	assert.ErrorIs(t, g.RequirePrivileged(alice), domain.ErrAccessDenied)
	assert.ErrorIs(t, g.RequirePrivileged(nil), domain.ErrAccessDenied)
	assert.ErrorIs(t, g.RequirePrivileged(&domain.User{ID: "x", Roles: []string{"admin"}}), domain.ErrAccessDenied)
}

func TestGateway_RequireRequestOwnerConsistency(t *testing.T) {
	g := NewGateway(new(MockUserLookup))

	assert.NoError(t, g.RequireRequestOwnerConsistency("alice", alice))
	assert.ErrorIs(t, g.RequireRequestOwnerConsistency("bob", alice), domain.ErrAccessDenied)
	assert.ErrorIs(t, g.RequireRequestOwnerConsistency("alice", root), domain.ErrAccessDenied)
	assert.ErrorIs(t, g.RequireRequestOwnerConsistency("", nil), domain.ErrAccessDenied)
}

func TestGateway_Policies(t *testing.T) {
	g := NewGateway(new(MockUserLookup))

	owner := g.OwnershipPolicy("file")
	assert.NoError(t, owner(alice, "alice"))
	assert.ErrorIs(t, owner(root, "alice"), domain.ErrAccessDenied)

	privileged := g.PrivilegedPolicy()
	assert.NoError(t, privileged(root, "alice"))
	assert.ErrorIs(t, privileged(alice, "alice"), domain.ErrAccessDenied)
}

func TestCachedLookup_ServesRepeatLookupsFromCache(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserLookup)
	stored := &domain.User{ID: "alice", Name: "Alice", Roles: []string{domain.RoleUser}}
	users.On("FindByID", ctx, "alice").Return(stored, nil).Once()
	c := NewCachedLookup(users, 8, time.Minute)

	first, err := c.FindByID(ctx, "alice")
	require.NoError(t, err)
	first.Roles[0] = domain.RoleAdmin

	second, err := c.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleUser}, second.Roles)

	exists, err := c.ExistsByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	users.AssertNumberOfCalls(t, "FindByID", 1)
	users.AssertNotCalled(t, "ExistsByID", ctx, "alice")
}

func TestCachedLookup_DoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserLookup)
	users.On("FindByID", ctx, "ghost").Return(nil, domain.ErrNotFound)
	users.On("ExistsByID", ctx, "ghost").Return(false, nil)
	c := NewCachedLookup(users, 8, time.Minute)

	_, err := c.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := c.ExistsByID(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	users.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestCachedLookup_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserLookup)
	users.On("FindByID", ctx, "alice").Return(alice, nil)
	c := NewCachedLookup(users, 8, 20*time.Millisecond)

	_, err := c.FindByID(ctx, "alice")
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = c.FindByID(ctx, "alice")
	require.NoError(t, err)

	users.AssertNumberOfCalls(t, "FindByID", 2)
}
