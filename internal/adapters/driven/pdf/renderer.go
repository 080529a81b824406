// Package pdf implements the rendering-engine port on top of the
// ledongthuc/pdf content-stream reader. A "render" here extracts the
// positioned text fragments and image regions of a page; no raster
// output is produced.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Ensure interface compliance
var (
	_ driven.RendererFactory = (*Factory)(nil)
	_ driven.Renderer        = (*Renderer)(nil)
)

// Fragments on the same baseline closer than this gap (in content units)
// are merged into one run. Extraction emits per-show-op runs that split
// words mid-line; merging restores readable fragments.
const mergeGap = 1.5

// Factory opens renderers for documents stored as <id>.pdf under a
// base directory.
type Factory struct {
	dir string
}

// NewFactory creates a renderer factory rooted at dir.
func NewFactory(dir string) *Factory {
	return &Factory{dir: dir}
}

// Open opens the stored document and returns a renderer for it.
func (f *Factory) Open(ctx context.Context, documentID string) (driven.Renderer, error) {
	path := filepath.Join(f.dir, documentID+".pdf")

	file, reader, err := pdf.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to open document %s: %w", documentID, err)
	}

	return &Renderer{
		file:   file,
		reader: reader,
		pages:  make(map[int]*renderedPage),
	}, nil
}

// renderedPage holds the extracted state of one page.
type renderedPage struct {
	fragments []domain.TextFragment
	images    []domain.Rect
	viewport  domain.Viewport
}

// Renderer reads one open PDF document. Rendered pages are cached until
// Close; re-rendering a page is a no-op.
type Renderer struct {
	file   *os.File
	reader *pdf.Reader

	mu    sync.RWMutex
	pages map[int]*renderedPage
}

// NumPages returns the page count of the document.
func (r *Renderer) NumPages() int {
	return r.reader.NumPage()
}

// PageText returns the plain text of a page without rendering it.
func (r *Renderer) PageText(ctx context.Context, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := r.reader.Page(page)
	if p.V.IsNull() {
		return "", fmt.Errorf("%w: page %d", domain.ErrNotFound, page)
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", page, err)
	}
	return text, nil
}

// RenderPage extracts the fragment geometry and image regions of a page.
func (r *Renderer) RenderPage(ctx context.Context, page int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	_, done := r.pages[page]
	r.mu.RUnlock()
	if done {
		return nil
	}

	p := r.reader.Page(page)
	if p.V.IsNull() {
		return fmt.Errorf("%w: page %d", domain.ErrNotFound, page)
	}

	rendered := &renderedPage{
		fragments: extractFragments(p.Content().Text, page),
		images:    extractImageRects(p),
		viewport:  pageViewport(p),
	}

	r.mu.Lock()
	r.pages[page] = rendered
	r.mu.Unlock()
	return nil
}

// TextContent returns the positioned fragments of a rendered page.
func (r *Renderer) TextContent(page int) ([]domain.TextFragment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rendered, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: page %d", domain.ErrTextLayerUnavailable, page)
	}
	return rendered.fragments, nil
}

// Viewport returns the page's content-space dimensions and render scale.
func (r *Renderer) Viewport(page int) (domain.Viewport, error) {
	r.mu.RLock()
	rendered, ok := r.pages[page]
	r.mu.RUnlock()
	if ok {
		return rendered.viewport, nil
	}

	p := r.reader.Page(page)
	if p.V.IsNull() {
		return domain.Viewport{}, fmt.Errorf("%w: page %d", domain.ErrNotFound, page)
	}
	return pageViewport(p), nil
}

// ImageRects returns the image bounding boxes found on the page's last
// render. Pages never rendered have none.
func (r *Renderer) ImageRects(page int) []domain.Rect {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rendered, ok := r.pages[page]
	if !ok {
		return nil
	}
	return rendered.images
}

// Close releases the underlying file.
func (r *Renderer) Close() error {
	r.mu.Lock()
	r.pages = make(map[int]*renderedPage)
	r.mu.Unlock()
	return r.file.Close()
}

// pageViewport derives content-space dimensions from the page MediaBox.
// The adapter extracts geometry at native resolution, so the scale is 1.
func pageViewport(p pdf.Page) domain.Viewport {
	box := p.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() < 4 {
		// US Letter in points, the de facto default.
		return domain.Viewport{Width: 612, Height: 792, Scale: 1}
	}

	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	return domain.Viewport{Width: x1 - x0, Height: y1 - y0, Scale: 1}
}

// extractFragments converts raw show-op text runs into merged fragments.
// Runs on the same baseline separated by less than mergeGap are joined so
// a fragment approximates one visual run of text.
func extractFragments(texts []pdf.Text, page int) []domain.TextFragment {
	fragments := make([]domain.TextFragment, 0, len(texts))

	var cur *domain.TextFragment
	var curEnd float64
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && cur == nil {
			continue
		}

		if cur != nil && sameBaseline(cur.Y, t.Y, cur.FontSize) && t.X-curEnd <= mergeGap {
			cur.Content += t.S
			curEnd = t.X + t.W
			cur.Width = curEnd - cur.X
			continue
		}

		if cur != nil {
			fragments = appendFragment(fragments, *cur)
		}
		cur = &domain.TextFragment{
			Content:  t.S,
			X:        t.X,
			Y:        t.Y,
			Width:    t.W,
			FontSize: t.FontSize,
			Page:     page,
		}
		curEnd = t.X + t.W
	}
	if cur != nil {
		fragments = appendFragment(fragments, *cur)
	}
	return fragments
}

func appendFragment(fragments []domain.TextFragment, f domain.TextFragment) []domain.TextFragment {
	if strings.TrimSpace(f.Content) == "" {
		return fragments
	}
	return append(fragments, f)
}

func sameBaseline(a, b, fontSize float64) bool {
	tol := fontSize / 4
	if tol < 0.5 {
		tol = 0.5
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m applied before n, matching the cm operator's semantics.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// unitSquareBounds returns the axis-aligned bounding box of the unit
// square transformed by m. Image XObjects are drawn into the unit square,
// so this is the image's placement on the page.
func unitSquareBounds(m matrix) domain.Rect {
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := m.apply(c[0], c[1])
		xs = append(xs, x)
		ys = append(ys, y)
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	return domain.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// extractImageRects interprets the page content stream tracking the
// current transformation matrix, and records the placement of every
// image XObject drawn with Do.
func extractImageRects(p pdf.Page) []domain.Rect {
	strm := p.V.Key("Contents")
	if strm.IsNull() {
		return nil
	}
	xobjects := p.Resources().Key("XObject")

	var rects []domain.Rect
	ctm := identity
	var saved []matrix

	pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
		switch op {
		case "cm":
			var vals [6]float64
			for i := 5; i >= 0; i-- {
				vals[i] = stk.Pop().Float64()
			}
			ctm = matrix(vals).mul(ctm)
		case "q":
			saved = append(saved, ctm)
		case "Q":
			if n := len(saved); n > 0 {
				ctm = saved[n-1]
				saved = saved[:n-1]
			}
		case "Do":
			name := stk.Pop().Name()
			obj := xobjects.Key(name)
			if obj.Kind() == pdf.Stream && obj.Key("Subtype").Name() == "Image" {
				if r := unitSquareBounds(ctm); !r.Degenerate() {
					rects = append(rects, r)
				}
			}
		default:
			// Drain operands so unrelated operators cannot leak
			// values into the next one we care about.
			for stk.Len() > 0 {
				stk.Pop()
			}
		}
	})
	return rects
}
