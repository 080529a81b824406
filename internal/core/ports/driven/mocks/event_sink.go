package mocks

import (
	"sync"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EventSink = (*MockEventSink)(nil)

// MockEventSink records published events for assertions
type MockEventSink struct {
	mu     sync.RWMutex
	events []domain.Event
}

// NewMockEventSink creates an empty MockEventSink
func NewMockEventSink() *MockEventSink {
	return &MockEventSink{}
}

func (m *MockEventSink) Publish(event domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of all published events
func (m *MockEventSink) Events() []domain.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Event, len(m.events))
	copy(out, m.events)
	return out
}

// ByType returns published events of one type
func (m *MockEventSink) ByType(t domain.EventType) []domain.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
