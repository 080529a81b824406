package driving

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// GroundingService drives the AI highlight pipeline: it takes a batch of
// AI answer strings and produces visually grounded highlights over the
// document's pages.
type GroundingService interface {
	// GroundBatch processes one batch of AI answers for a document.
	// A batch whose content signature matches the previously processed
	// batch for the same session is skipped. Failures local to one
	// candidate or page degrade to fallbacks and never abort the batch.
	GroundBatch(ctx context.Context, userID, documentID, messageID string, answers []string) error

	// Highlights returns the session's current highlights for a page, in
	// insertion order (render order = z-order).
	Highlights(ctx context.Context, userID, documentID string, page int) ([]*domain.Highlight, error)

	// RestoreHighlights seeds the session with highlights rebuilt from
	// persisted annotations and returns them.
	RestoreHighlights(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error)

	// CloseSession discards session state for a document (used when the
	// user navigates away).
	CloseSession(userID, documentID string)
}
