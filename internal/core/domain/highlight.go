package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	return uuid.NewString()
}

// Rect is a rectangle in page-relative, top-left-origin coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Degenerate reports whether the rectangle is too small to render.
func (r Rect) Degenerate() bool {
	return r.Width <= 1 || r.Height <= 1
}

// CenterY returns the vertical centre of the rectangle.
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// FallbackRect is the placeholder geometry used when a matched sentence
// cannot be located precisely on its page. A visible but imprecise highlight
// beats silently dropping a match the assistant already claimed to have found.
var FallbackRect = Rect{X: 50, Y: 150, Width: 400, Height: 25}

// TextFragment is a single positioned run of text produced by the rendering
// engine for one page. Coordinates are in content space (origin bottom-left).
// Fragments are ephemeral and regenerated on every page render.
type TextFragment struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	FontSize float64 `json:"font_size"`
	Page     int     `json:"page"`
}

// PageText is the concatenated fragment text of one page, used as the
// ranking corpus. Rebuilt whenever the source document changes.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Candidate is a scored (page, sentence) pair produced by the ranker.
type Candidate struct {
	Page     int     `json:"page"`
	Sentence string  `json:"sentence"`
	Score    float64 `json:"score"`
}

// Viewport describes a page's content-space dimensions and current render
// scale. Width and Height are content-space units; Scale maps content units
// to screen pixels and can change between renders.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// HighlightType identifies how a highlight was created.
type HighlightType string

const (
	HighlightManual HighlightType = "manual"
	HighlightAI     HighlightType = "ai"
	HighlightImage  HighlightType = "image"
)

// HighlightShape is the rendered form of a highlight.
type HighlightShape string

const (
	ShapeRect   HighlightShape = "rect"
	ShapeCircle HighlightShape = "circle"
)

// Display colors, semantic by highlight type.
const (
	ColorText        = "#ffff00"
	ColorImageStroke = "#ff0000"
	ColorTransparent = "transparent"
)

// Highlight is a visual annotation over a rendered page. A highlight may
// carry several rectangles when a matched span wraps across lines; all of
// them belong to one logical match.
type Highlight struct {
	ID          string         `json:"id"`
	PageNumber  int            `json:"page_number"`
	Text        string         `json:"text"`
	Rects       []Rect         `json:"rects"`
	Color       string         `json:"color"`
	Type        HighlightType  `json:"type"`
	Shape       HighlightShape `json:"shape,omitempty"`
	StrokeColor string         `json:"stroke_color,omitempty"`
	StrokeWidth float64        `json:"stroke_width,omitempty"`
}

// NewTextHighlight creates a text highlight of the given type. Degenerate
// rects are filtered out; if none survive, the fallback rectangle is used.
func NewTextHighlight(hlType HighlightType, page int, text string, rects []Rect) *Highlight {
	kept := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if !r.Degenerate() {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		kept = []Rect{FallbackRect}
	}

	return &Highlight{
		ID:         fmt.Sprintf("%s-highlight-%s-%d", hlType, GenerateID(), page),
		PageNumber: page,
		Text:       text,
		Rects:      kept,
		Color:      ColorText,
		Type:       hlType,
		Shape:      ShapeRect,
	}
}

// NewImageHighlight creates a circled-figure highlight around an image
// region. The circle is an outline, not a fill.
func NewImageHighlight(page int, rect Rect) *Highlight {
	return &Highlight{
		ID:          fmt.Sprintf("image-highlight-%s-%d", GenerateID(), page),
		PageNumber:  page,
		Text:        "image",
		Rects:       []Rect{rect},
		Color:       ColorTransparent,
		Type:        HighlightImage,
		Shape:       ShapeCircle,
		StrokeColor: ColorImageStroke,
		StrokeWidth: 2,
	}
}

// Renderable reports whether the highlight has at least one valid rectangle.
// Highlights without one must not be drawn.
func (h *Highlight) Renderable() bool {
	for _, r := range h.Rects {
		if !r.Degenerate() {
			return true
		}
	}
	return false
}

// PrimaryRect returns the first rectangle, which anchors persistence and
// navigation. The zero Rect is returned when geometry has not resolved yet.
func (h *Highlight) PrimaryRect() Rect {
	if len(h.Rects) == 0 {
		return Rect{}
	}
	return h.Rects[0]
}
