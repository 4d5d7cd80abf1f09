package draftsmith

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested article does not exist.
var ErrNotFound = errors.New("not found")

// ArticleCache is an in-memory cache of published articles and tags with TTL.
type ArticleCache struct {
	mu       sync.RWMutex
	articles []Article
	tags     []string
	fetched  time.Time
	loaded   bool
	ttl      time.Duration
	store    *Store
}

// NewArticleCache creates an ArticleCache backed by the given Store.
func NewArticleCache(s *Store, ttl time.Duration) *ArticleCache {
	return &ArticleCache{store: s, ttl: ttl}
}

func (c *ArticleCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.tags = nil
	c.loaded = false
	c.mu.Unlock()
}

func (c *ArticleCache) load() error {
	if c.valid() {
		return nil
	}
	articles, err := c.store.ListArticles("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	c.articles = articles
	c.tags = tags
	c.fetched = time.Now()
	c.loaded = true
	return nil
}

// ensureLoaded returns cached articles and tags after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock if a reload is
// needed.
func (c *ArticleCache) ensureLoaded() ([]Article, []string, error) {
	c.mu.RLock()
	if c.valid() {
		articles, tags := c.articles, c.tags
		c.mu.RUnlock()
		return articles, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.articles, c.tags, nil
}

// ListArticles returns published articles, optionally filtered by tag.
func (c *ArticleCache) ListArticles(tag string) ([]Article, error) {
	articles, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return articles, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Article
	for _, a := range articles {
		for _, t := range a.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published articles.
func (c *ArticleCache) ListTags() ([]string, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// GetArticle returns a single published article by slug from the cache.
func (c *ArticleCache) GetArticle(slug string) (Article, error) {
	articles, _, err := c.ensureLoaded()
	if err != nil {
		return Article{}, err
	}
	for _, a := range articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
