package driven

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// Renderer is the rendering-engine contract for one open document.
// Page numbers are 1-based throughout.
type Renderer interface {
	// NumPages returns the page count of the document.
	NumPages() int

	// PageText returns the concatenated fragment text of a page, in
	// extraction order. Available without rendering; used to build the
	// ranking corpus.
	PageText(ctx context.Context, page int) (string, error)

	// RenderPage makes the page's fragment geometry and image regions
	// queryable. Idempotent and safe to call repeatedly; a page that is
	// already rendered is a no-op.
	RenderPage(ctx context.Context, page int) error

	// TextContent returns the page's positioned text fragments. Returns
	// domain.ErrTextLayerUnavailable until RenderPage has completed for
	// the page.
	TextContent(page int) ([]domain.TextFragment, error)

	// Viewport returns the page's content-space dimensions and current
	// render scale. The scale can change between renders and must never
	// be cached by callers.
	Viewport(page int) (domain.Viewport, error)

	// ImageRects returns the content-space bounding boxes of images drawn
	// on the page during its last render. Empty for pages never rendered.
	ImageRects(page int) []domain.Rect

	// Close releases the underlying document.
	Close() error
}

// RendererFactory opens a renderer for a stored document.
type RendererFactory interface {
	Open(ctx context.Context, documentID string) (Renderer, error)
}
