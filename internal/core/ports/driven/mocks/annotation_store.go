package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AnnotationStore = (*MockAnnotationStore)(nil)

// MockAnnotationStore is an in-memory AnnotationStore for testing
type MockAnnotationStore struct {
	mu      sync.RWMutex
	records map[string]*domain.AnnotationRecord
	links   map[string]map[string]bool // messageID -> annotationID set
	seq     int

	// CreateErr is returned by Create when set
	CreateErr error
}

// NewMockAnnotationStore creates an empty MockAnnotationStore
func NewMockAnnotationStore() *MockAnnotationStore {
	return &MockAnnotationStore{
		records: make(map[string]*domain.AnnotationRecord),
		links:   make(map[string]map[string]bool),
	}
}

func (m *MockAnnotationStore) Create(ctx context.Context, rec *domain.AnnotationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if rec.CreatedAt.IsZero() {
		m.seq++
		rec.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Microsecond)
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MockAnnotationStore) FindNearDuplicate(ctx context.Context, userID string, in *domain.AnnotationInput, tolerance float64) (*domain.AnnotationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records {
		if rec.NearDuplicate(in, userID, tolerance) {
			return rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockAnnotationStore) Get(ctx context.Context, id string) (*domain.AnnotationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *MockAnnotationStore) ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AnnotationRecord
	for _, rec := range m.records {
		if rec.UserID == userID && rec.DocumentID == documentID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockAnnotationStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	for _, set := range m.links {
		delete(set, id)
	}
	return nil
}

func (m *MockAnnotationStore) LinkMessage(ctx context.Context, messageID, annotationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links[messageID] == nil {
		m.links[messageID] = make(map[string]bool)
	}
	m.links[messageID][annotationID] = true
	return nil
}

func (m *MockAnnotationStore) UnlinkMessage(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, messageID)
	return nil
}

func (m *MockAnnotationStore) DeleteOrphanedAI(ctx context.Context, userID, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	linked := make(map[string]bool)
	for _, set := range m.links {
		for id := range set {
			linked[id] = true
		}
	}

	count := 0
	for id, rec := range m.records {
		if rec.UserID == userID && rec.DocumentID == documentID &&
			rec.CreatedBy == domain.CreatedByAI && !linked[id] {
			delete(m.records, id)
			count++
		}
	}
	return count, nil
}

// Count returns the number of stored records
func (m *MockAnnotationStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Linked reports whether a message/annotation link exists
func (m *MockAnnotationStore) Linked(messageID, annotationID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.links[messageID][annotationID]
}
