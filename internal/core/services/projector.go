package services

import "github.com/RyanKhPark/sf-asgmt/internal/core/domain"

// Projector converts content-space geometry, where the origin sits at the
// page's bottom-left, into screen-space pixel rectangles with a top-left
// origin. The viewport must be the page's current one, never a cached copy.
type Projector struct{}

func NewProjector() *Projector {
	return &Projector{}
}

// Project turns a located span into one screen rectangle per text line.
// Degenerate rectangles, those collapsing to a point or a hairline, are
// dropped.
func (p *Projector) Project(match *SpanMatch, vp domain.Viewport) []domain.Rect {
	if match == nil || vp.Scale == 0 {
		return nil
	}

	var rects []domain.Rect
	for _, line := range groupLines(match.Fragments) {
		left := line.fragments[0].X
		right := left
		baseline := line.fragments[0].Y
		height := 0.0
		for _, f := range line.fragments {
			if f.X < left {
				left = f.X
			}
			if edge := f.X + f.Width; edge > right {
				right = edge
			}
			if f.Y < baseline {
				baseline = f.Y
			}
			if f.FontSize > height {
				height = f.FontSize
			}
		}
		if height == 0 {
			height = 12
		}

		r := p.ProjectRect(domain.Rect{
			X:      left,
			Y:      baseline,
			Width:  right - left,
			Height: height,
		}, vp)
		if r.Degenerate() {
			continue
		}
		rects = append(rects, r)
	}
	return rects
}

// ProjectRect maps a single content-space rectangle to screen space. The
// vertical flip anchors the rectangle's top edge: a rect whose bottom sits
// at content Y with height H has its top at Y+H, which lands at
// (pageHeight - Y - H) / scale from the top of the screen.
func (p *Projector) ProjectRect(r domain.Rect, vp domain.Viewport) domain.Rect {
	return domain.Rect{
		X:      r.X / vp.Scale,
		Y:      (vp.Height - r.Y - r.Height) / vp.Scale,
		Width:  r.Width / vp.Scale,
		Height: r.Height / vp.Scale,
	}
}
