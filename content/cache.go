package content

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("content: post not found")

// Cache is an in-memory snapshot of the post collection with TTL. The
// Repository itself re-reads the filesystem on every Load; caching the
// result is a serving-layer concern and lives here.
type Cache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	repo    *Repository
}

// NewCache creates a Cache backed by the given Repository.
func NewCache(repo *Repository, ttl time.Duration) *Cache {
	return &Cache{repo: repo, ttl: ttl}
}

func (c *Cache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached snapshot after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *Cache) ensureLoaded(ctx context.Context) ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// Posts returns the ordered post snapshot. Callers must treat it as read-only.
func (c *Cache) Posts(ctx context.Context) ([]Post, error) {
	return c.ensureLoaded(ctx)
}

// Get returns a single post by slug from the snapshot.
func (c *Cache) Get(ctx context.Context, slug string) (Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}
