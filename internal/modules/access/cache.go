package access

import (
	"context"
	"time"

	"filemeta/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	userCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filemeta_user_cache_hits_total",
		Help: "Resolved users served from the in-memory cache.",
	})
	userCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filemeta_user_cache_misses_total",
		Help: "User lookups that went to the user store.",
	})
)

// CachedLookup is a UserLookup with a per-instance expirable LRU in front.
// A role revoked in the user store stays effective here for at most ttl.
type CachedLookup struct {
	next  UserLookup
	cache *expirable.LRU[string, *domain.User]
}

func NewCachedLookup(next UserLookup, maxSize int, ttl time.Duration) *CachedLookup {
	return &CachedLookup{
		next:  next,
		cache: expirable.NewLRU[string, *domain.User](maxSize, nil, ttl),
	}
}

func (c *CachedLookup) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := c.cache.Get(id); ok {
		userCacheHitsTotal.Inc()
		return cloneUser(u), nil
	}
	userCacheMissesTotal.Inc()

	u, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, cloneUser(u))
	return u, nil
}

func (c *CachedLookup) ExistsByID(ctx context.Context, id string) (bool, error) {
	if _, ok := c.cache.Get(id); ok {
		userCacheHitsTotal.Inc()
		return true, nil
	}
	return c.next.ExistsByID(ctx, id)
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	return &cp
}
