package driving

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// SaveResult is the outcome of saving an annotation. When an equivalent
// record already existed within the dedup tolerance, Deduped is true and
// Annotation is the pre-existing record; callers must treat both outcomes
// identically and use the returned record's ID going forward.
type SaveResult struct {
	Annotation *domain.AnnotationRecord `json:"annotation"`
	Deduped    bool                     `json:"deduped,omitempty"`
}

// AnnotationService is the persistence gateway for highlight annotations.
type AnnotationService interface {
	// Save persists an annotation, suppressing near-duplicates.
	Save(ctx context.Context, userID string, in *domain.AnnotationInput) (*SaveResult, error)

	// List returns the user's annotations for a document, ordered by
	// creation time.
	List(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error)

	// Restore maps the user's stored annotations to highlights, dropping
	// records whose geometry no longer renders.
	Restore(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error)

	// LinkMessage associates an annotation with a chat message.
	LinkMessage(ctx context.Context, userID, messageID, annotationID string) error

	// UnlinkMessage removes a message's links and cleans up AI-created
	// annotations left orphaned by the removal.
	UnlinkMessage(ctx context.Context, userID, documentID, messageID string) error

	// Delete removes one annotation owned by the user.
	Delete(ctx context.Context, userID, annotationID string) error
}
