package mocks

import (
	"context"
	"sync"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PageTextCache = (*MockPageTextCache)(nil)

// MockPageTextCache is an in-memory PageTextCache for testing
type MockPageTextCache struct {
	mu      sync.RWMutex
	entries map[string][]domain.PageText

	// Hits counts cache hits
	Hits int
}

// NewMockPageTextCache creates an empty MockPageTextCache
func NewMockPageTextCache() *MockPageTextCache {
	return &MockPageTextCache{entries: make(map[string][]domain.PageText)}
}

func (m *MockPageTextCache) Get(ctx context.Context, documentID string) ([]domain.PageText, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pages, ok := m.entries[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.Hits++
	return pages, nil
}

func (m *MockPageTextCache) Put(ctx context.Context, documentID string, pages []domain.PageText) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[documentID] = pages
	return nil
}

func (m *MockPageTextCache) Invalidate(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, documentID)
	return nil
}
