package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AnnotationStore = (*AnnotationStore)(nil)

// AnnotationStore implements driven.AnnotationStore using PostgreSQL
type AnnotationStore struct {
	db *DB
}

// NewAnnotationStore creates a new AnnotationStore
func NewAnnotationStore(db *DB) *AnnotationStore {
	return &AnnotationStore{db: db}
}

const annotationColumns = `id, document_id, user_id, type, highlight_text, page_number,
	x, y, width, height, color, created_by, created_at`

// Create inserts a new annotation record
func (s *AnnotationStore) Create(ctx context.Context, rec *domain.AnnotationRecord) error {
	query := `
		INSERT INTO annotations (` + annotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.DocumentID,
		rec.UserID,
		rec.Type,
		rec.HighlightText,
		rec.PageNumber,
		rec.X,
		rec.Y,
		rec.Width,
		rec.Height,
		rec.Color,
		rec.CreatedBy,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert annotation: %w", err)
	}
	return nil
}

// FindNearDuplicate looks for an existing record matching the input's
// identity fields exactly and its geometry within the tolerance.
func (s *AnnotationStore) FindNearDuplicate(ctx context.Context, userID string, in *domain.AnnotationInput, tolerance float64) (*domain.AnnotationRecord, error) {
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = domain.CreatedByUser
	}

	query := `
		SELECT ` + annotationColumns + `
		FROM annotations
		WHERE user_id = $1
		  AND document_id = $2
		  AND page_number = $3
		  AND type = $4
		  AND highlight_text = $5
		  AND created_by = $6
		  AND abs(x - $7) <= $11
		  AND abs(y - $8) <= $11
		  AND abs(width - $9) <= $11
		  AND abs(height - $10) <= $11
		ORDER BY created_at
		LIMIT 1
	`

	row := s.db.QueryRowContext(ctx, query,
		userID,
		in.DocumentID,
		in.PageNumber,
		in.Type,
		in.HighlightText,
		createdBy,
		in.X,
		in.Y,
		in.Width,
		in.Height,
		tolerance,
	)
	return scanAnnotation(row)
}

// Get retrieves an annotation by ID
func (s *AnnotationStore) Get(ctx context.Context, id string) (*domain.AnnotationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+annotationColumns+` FROM annotations WHERE id = $1`, id)
	return scanAnnotation(row)
}

// ListByDocument returns the user's annotations for a document, oldest first
func (s *AnnotationStore) ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error) {
	query := `
		SELECT ` + annotationColumns + `
		FROM annotations
		WHERE user_id = $1 AND document_id = $2
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer rows.Close()

	var records []*domain.AnnotationRecord
	for rows.Next() {
		rec, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes an annotation; message links cascade
func (s *AnnotationStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkMessage records that a chat message produced an annotation
func (s *AnnotationStore) LinkMessage(ctx context.Context, messageID, annotationID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_highlights (message_id, annotation_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, messageID, annotationID)
	if err != nil {
		return fmt.Errorf("link message: %w", err)
	}
	return nil
}

// UnlinkMessage removes all of a message's annotation links
func (s *AnnotationStore) UnlinkMessage(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM message_highlights WHERE message_id = $1`, messageID)
	if err != nil {
		return fmt.Errorf("unlink message: %w", err)
	}
	return nil
}

// DeleteOrphanedAI removes the user's AI-created annotations on a document
// that no message references anymore.
func (s *AnnotationStore) DeleteOrphanedAI(ctx context.Context, userID, documentID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM annotations a
		WHERE a.user_id = $1
		  AND a.document_id = $2
		  AND a.created_by = $3
		  AND NOT EXISTS (
			SELECT 1 FROM message_highlights mh WHERE mh.annotation_id = a.id
		  )
	`, userID, documentID, domain.CreatedByAI)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned annotations: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(row scanner) (*domain.AnnotationRecord, error) {
	var rec domain.AnnotationRecord
	err := row.Scan(
		&rec.ID,
		&rec.DocumentID,
		&rec.UserID,
		&rec.Type,
		&rec.HighlightText,
		&rec.PageNumber,
		&rec.X,
		&rec.Y,
		&rec.Width,
		&rec.Height,
		&rec.Color,
		&rec.CreatedBy,
		&rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
