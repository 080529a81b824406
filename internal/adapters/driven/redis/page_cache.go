package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PageTextCache = (*PageTextCache)(nil)

const pageTextPrefix = "pagetext:"

// PageTextCache implements driven.PageTextCache using Redis. Extracting a
// document's text means walking every page, so repeat grounding sessions
// against the same document read the corpus from here instead.
type PageTextCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageTextCache creates a Redis-backed PageTextCache. A ttl of zero means
// entries never expire.
func NewPageTextCache(client *redis.Client, ttl time.Duration) *PageTextCache {
	return &PageTextCache{client: client, ttl: ttl}
}

// Get returns the cached corpus, or domain.ErrNotFound on a miss
func (c *PageTextCache) Get(ctx context.Context, documentID string) ([]domain.PageText, error) {
	data, err := c.client.Get(ctx, pageTextPrefix+documentID).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page text: %w", err)
	}

	var pages []domain.PageText
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page text: %w", err)
	}
	return pages, nil
}

// Put stores the corpus for a document
func (c *PageTextCache) Put(ctx context.Context, documentID string, pages []domain.PageText) error {
	data, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("failed to marshal page text: %w", err)
	}

	if err := c.client.Set(ctx, pageTextPrefix+documentID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save page text: %w", err)
	}
	return nil
}

// Invalidate drops the cached corpus for a document
func (c *PageTextCache) Invalidate(ctx context.Context, documentID string) error {
	if err := c.client.Del(ctx, pageTextPrefix+documentID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate page text: %w", err)
	}
	return nil
}
