package domain

import (
	"math"
	"strings"
	"time"
)

// Annotation type values as persisted.
const (
	AnnotationHighlight      = "highlight"
	AnnotationAIHighlight    = "ai_highlight"
	AnnotationImageHighlight = "image_highlight"
)

// Creator values for annotations.
const (
	CreatedByUser = "user"
	CreatedByAI   = "ai"
)

// AnnotationRecord is the persisted form of a highlight, keyed by
// (documentID, userID). Records are immutable after creation except for
// deletion cascades when a linking message is removed.
type AnnotationRecord struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	HighlightText string    `json:"highlight_text"`
	PageNumber    int       `json:"page_number"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Color         string    `json:"color"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// AnnotationInput is the payload for saving an annotation. MessageID is
// optional and links the annotation to the chat message that produced it.
type AnnotationInput struct {
	DocumentID    string  `json:"document_id"`
	Type          string  `json:"type"`
	HighlightText string  `json:"highlight_text"`
	PageNumber    int     `json:"page_number"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Color         string  `json:"color"`
	CreatedBy     string  `json:"created_by"`
	MessageID     string  `json:"message_id,omitempty"`
}

// Validate checks required fields.
func (in *AnnotationInput) Validate() error {
	if in.DocumentID == "" || in.Type == "" || in.HighlightText == "" || in.PageNumber < 1 {
		return ErrInvalidInput
	}
	return nil
}

// Record builds an AnnotationRecord from the input for the given user.
// Zero geometry gets the same defaults the original persistence applied.
func (in *AnnotationInput) Record(userID string) *AnnotationRecord {
	width := in.Width
	if width == 0 {
		width = 100
	}
	height := in.Height
	if height == 0 {
		height = 20
	}
	color := in.Color
	if color == "" {
		color = ColorText
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = CreatedByUser
	}

	return &AnnotationRecord{
		ID:            GenerateID(),
		DocumentID:    in.DocumentID,
		UserID:        userID,
		Type:          in.Type,
		HighlightText: in.HighlightText,
		PageNumber:    in.PageNumber,
		X:             in.X,
		Y:             in.Y,
		Width:         width,
		Height:        height,
		Color:         color,
		CreatedBy:     createdBy,
	}
}

// NearDuplicate reports whether an existing record is equivalent to the
// input within the given geometry tolerance. Identity fields must match
// exactly; x/y/width/height may differ by up to tolerance units each.
func (a *AnnotationRecord) NearDuplicate(in *AnnotationInput, userID string, tolerance float64) bool {
	if a.DocumentID != in.DocumentID ||
		a.UserID != userID ||
		a.PageNumber != in.PageNumber ||
		a.HighlightText != in.HighlightText ||
		a.Type != in.Type {
		return false
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = CreatedByUser
	}
	if a.CreatedBy != createdBy {
		return false
	}

	return math.Abs(a.X-in.X) <= tolerance &&
		math.Abs(a.Y-in.Y) <= tolerance &&
		math.Abs(a.Width-in.Width) <= tolerance &&
		math.Abs(a.Height-in.Height) <= tolerance
}

// ToHighlight maps a persisted record back to a renderable highlight.
// Records whose stored geometry is degenerate yield a highlight with no
// rects, which callers filter out before rendering.
func (a *AnnotationRecord) ToHighlight() *Highlight {
	rects := []Rect{{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}}
	kept := rects[:0]
	for _, r := range rects {
		if r.Width > 1 && r.Height > 1 {
			kept = append(kept, r)
		}
	}

	h := &Highlight{
		ID:         "ann-" + a.ID,
		PageNumber: a.PageNumber,
		Text:       a.HighlightText,
		Rects:      kept,
		Color:      a.Color,
		Shape:      ShapeRect,
	}

	switch {
	case a.Type == AnnotationImageHighlight:
		h.Type = HighlightImage
		h.Shape = ShapeCircle
		h.StrokeColor = ColorImageStroke
		h.StrokeWidth = 2
		if h.Color == "" {
			h.Color = ColorImageStroke
		}
	case strings.EqualFold(a.CreatedBy, CreatedByAI):
		h.Type = HighlightAI
	default:
		h.Type = HighlightManual
	}
	if h.Color == "" {
		h.Color = ColorText
	}
	return h
}
