package mocks

import (
	"context"
	"sync"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.Renderer        = (*MockRenderer)(nil)
	_ driven.RendererFactory = (*MockRendererFactory)(nil)
)

// MockPage holds the configurable content of one page in a MockRenderer
type MockPage struct {
	Text      string
	Fragments []domain.TextFragment
	Viewport  domain.Viewport
	Images    []domain.Rect
}

// MockRenderer is a mock implementation of Renderer for testing
type MockRenderer struct {
	mu       sync.RWMutex
	pages    map[int]*MockPage
	rendered map[int]bool

	// RenderErr is returned by RenderPage when set
	RenderErr error

	// ViewportErr is returned by Viewport when set
	ViewportErr error

	// RenderCalls counts RenderPage invocations per page
	RenderCalls map[int]int
}

// NewMockRenderer creates a MockRenderer with no pages
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{
		pages:       make(map[int]*MockPage),
		rendered:    make(map[int]bool),
		RenderCalls: make(map[int]int),
	}
}

// SetPage configures a page's content. The default viewport is 612x792 at
// scale 1 when none is given.
func (m *MockRenderer) SetPage(page int, p *MockPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Viewport == (domain.Viewport{}) {
		p.Viewport = domain.Viewport{Width: 612, Height: 792, Scale: 1}
	}
	m.pages[page] = p
}

// SetPageText configures a page with text only, fragments laid out one per
// sentence line at decreasing Y positions.
func (m *MockRenderer) SetPageText(page int, text string) {
	m.SetPage(page, &MockPage{
		Text: text,
		Fragments: []domain.TextFragment{
			{Content: text, X: 72, Y: 700, Width: 400, FontSize: 12, Page: page},
		},
	})
}

func (m *MockRenderer) NumPages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := 0
	for p := range m.pages {
		if p > max {
			max = p
		}
	}
	return max
}

func (m *MockRenderer) PageText(ctx context.Context, page int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pages[page]
	if !ok {
		return "", domain.ErrPageOutOfRange
	}
	return p.Text, nil
}

func (m *MockRenderer) RenderPage(ctx context.Context, page int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RenderCalls[page]++
	if m.RenderErr != nil {
		return m.RenderErr
	}
	if _, ok := m.pages[page]; !ok {
		return domain.ErrPageOutOfRange
	}
	m.rendered[page] = true
	return nil
}

func (m *MockRenderer) TextContent(page int) ([]domain.TextFragment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.rendered[page] {
		return nil, domain.ErrTextLayerUnavailable
	}
	return m.pages[page].Fragments, nil
}

func (m *MockRenderer) Viewport(page int) (domain.Viewport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ViewportErr != nil {
		return domain.Viewport{}, m.ViewportErr
	}
	p, ok := m.pages[page]
	if !ok {
		return domain.Viewport{}, domain.ErrPageOutOfRange
	}
	return p.Viewport, nil
}

func (m *MockRenderer) ImageRects(page int) []domain.Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.rendered[page] {
		return nil
	}
	return m.pages[page].Images
}

func (m *MockRenderer) Close() error {
	return nil
}

// Rendered reports whether a page has been rendered
func (m *MockRenderer) Rendered(page int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rendered[page]
}

// MockRendererFactory is a mock implementation of RendererFactory
type MockRendererFactory struct {
	mu        sync.RWMutex
	renderers map[string]*MockRenderer

	// OpenErr is returned by Open when set
	OpenErr error
}

// NewMockRendererFactory creates an empty factory
func NewMockRendererFactory() *MockRendererFactory {
	return &MockRendererFactory{renderers: make(map[string]*MockRenderer)}
}

// SetDocument registers a renderer for a document ID
func (f *MockRendererFactory) SetDocument(documentID string, r *MockRenderer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderers[documentID] = r
}

func (f *MockRendererFactory) Open(ctx context.Context, documentID string) (driven.Renderer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	r, ok := f.renderers[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}
