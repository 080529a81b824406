package driven

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// PageTextCache caches a document's extracted page-text corpus so repeated
// grounding batches against the same document skip re-extraction.
// Implementations may evict entries at any time; a miss is never an error
// path for callers, just a slower one.
type PageTextCache interface {
	// Get returns the cached corpus, or domain.ErrNotFound on a miss.
	Get(ctx context.Context, documentID string) ([]domain.PageText, error)

	// Put stores the corpus for a document.
	Put(ctx context.Context, documentID string, pages []domain.PageText) error

	// Invalidate drops the cached corpus for a document.
	Invalidate(ctx context.Context, documentID string) error
}
