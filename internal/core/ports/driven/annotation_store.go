package driven

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// AnnotationStore persists highlight annotations, scoped per user and
// document. The store owns near-duplicate suppression: saving is expected to
// be preceded by FindNearDuplicate with the configured geometry tolerance.
type AnnotationStore interface {
	// Create inserts a new annotation record.
	Create(ctx context.Context, rec *domain.AnnotationRecord) error

	// FindNearDuplicate returns an existing record equivalent to the input
	// within tolerance units of geometry, or domain.ErrNotFound.
	FindNearDuplicate(ctx context.Context, userID string, in *domain.AnnotationInput, tolerance float64) (*domain.AnnotationRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.AnnotationRecord, error)

	// ListByDocument returns all of a user's records for a document,
	// ordered by creation time.
	ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error

	// LinkMessage associates an annotation with a chat message. Linking
	// the same pair twice is a no-op.
	LinkMessage(ctx context.Context, messageID, annotationID string) error

	// UnlinkMessage removes all links for a message.
	UnlinkMessage(ctx context.Context, messageID string) error

	// DeleteOrphanedAI removes AI-created annotations for the document
	// that are no longer linked to any message, returning the count.
	DeleteOrphanedAI(ctx context.Context, userID, documentID string) (int, error)
}
