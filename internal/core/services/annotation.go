package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.AnnotationService = (*AnnotationSvc)(nil)

// AnnotationSvc is the persistence gateway for highlight annotations. All
// reads and writes are scoped to the calling user.
type AnnotationSvc struct {
	store     driven.AnnotationStore
	tolerance float64
	logger    *slog.Logger
}

func NewAnnotationService(store driven.AnnotationStore, tolerance float64, logger *slog.Logger) *AnnotationSvc {
	return &AnnotationSvc{store: store, tolerance: tolerance, logger: logger}
}

// Save implements driving.AnnotationService. An input equivalent to an
// existing record within the geometry tolerance returns that record with
// Deduped set instead of creating a second row.
func (s *AnnotationSvc) Save(ctx context.Context, userID string, in *domain.AnnotationInput) (*driving.SaveResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.store.FindNearDuplicate(ctx, userID, in, s.tolerance); err == nil {
		s.logger.Debug("duplicate annotation suppressed",
			"annotation_id", existing.ID, "document_id", in.DocumentID, "page", in.PageNumber)
		if in.MessageID != "" {
			s.linkQuietly(ctx, in.MessageID, existing.ID)
		}
		return &driving.SaveResult{Annotation: existing, Deduped: true}, nil
	} else if err != domain.ErrNotFound {
		return nil, fmt.Errorf("checking for duplicate annotation: %w", err)
	}

	rec := in.Record(userID)
	rec.CreatedAt = time.Now().UTC()
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating annotation: %w", err)
	}

	if in.MessageID != "" {
		s.linkQuietly(ctx, in.MessageID, rec.ID)
	}
	return &driving.SaveResult{Annotation: rec}, nil
}

// linkQuietly records a message link. Link failure does not fail the save;
// the annotation itself is already durable.
func (s *AnnotationSvc) linkQuietly(ctx context.Context, messageID, annotationID string) {
	if err := s.store.LinkMessage(ctx, messageID, annotationID); err != nil {
		s.logger.Warn("message link failed",
			"message_id", messageID, "annotation_id", annotationID, "error", err)
	}
}

// List implements driving.AnnotationService.
func (s *AnnotationSvc) List(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error) {
	if documentID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.ListByDocument(ctx, userID, documentID)
}

// Restore implements driving.AnnotationService. Records whose geometry
// collapsed below renderable size are dropped rather than drawn as slivers.
func (s *AnnotationSvc) Restore(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	records, err := s.List(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	highlights := make([]*domain.Highlight, 0, len(records))
	for _, rec := range records {
		h := rec.ToHighlight()
		if !h.Renderable() {
			continue
		}
		highlights = append(highlights, h)
	}
	return highlights, nil
}

// LinkMessage implements driving.AnnotationService.
func (s *AnnotationSvc) LinkMessage(ctx context.Context, userID, messageID, annotationID string) error {
	if messageID == "" || annotationID == "" {
		return domain.ErrInvalidInput
	}

	rec, err := s.store.Get(ctx, annotationID)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return domain.ErrForbidden
	}
	return s.store.LinkMessage(ctx, messageID, annotationID)
}

// UnlinkMessage implements driving.AnnotationService. Removing the last
// message link to an AI-created annotation deletes the annotation too, so
// deleted chat messages do not leave ghost highlights behind.
func (s *AnnotationSvc) UnlinkMessage(ctx context.Context, userID, documentID, messageID string) error {
	if messageID == "" {
		return domain.ErrInvalidInput
	}
	if err := s.store.UnlinkMessage(ctx, messageID); err != nil {
		return fmt.Errorf("unlinking message %s: %w", messageID, err)
	}

	removed, err := s.store.DeleteOrphanedAI(ctx, userID, documentID)
	if err != nil {
		return fmt.Errorf("cleaning up orphaned highlights: %w", err)
	}
	if removed > 0 {
		s.logger.Info("removed orphaned ai annotations",
			"document_id", documentID, "count", removed)
	}
	return nil
}

// Delete implements driving.AnnotationService.
func (s *AnnotationSvc) Delete(ctx context.Context, userID, annotationID string) error {
	rec, err := s.store.Get(ctx, annotationID)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return domain.ErrForbidden
	}
	return s.store.Delete(ctx, annotationID)
}
