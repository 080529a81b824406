package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Session is the per-user, per-document grounding state: an open renderer,
// the extracted page text corpus, the highlights produced so far, the last
// processed batch signature and the pages already circled in this batch.
type Session struct {
	documentID string
	userID     string
	renderer   driven.Renderer

	mu            sync.Mutex
	corpus        []domain.PageText
	highlights    []*domain.Highlight
	lastSignature string
	circledPages  map[int]bool
}

func (s *Session) DocumentID() string        { return s.documentID }
func (s *Session) Renderer() driven.Renderer { return s.renderer }

func (s *Session) Corpus() []domain.PageText {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corpus
}

// SeenSignature reports whether the batch signature was already processed
// and records it otherwise. The signature guard makes re-delivered batches
// idempotent.
func (s *Session) SeenSignature(sig string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSignature == sig {
		return true
	}
	s.lastSignature = sig
	return false
}

// ResetCircled clears the circled page guard at the start of a batch.
func (s *Session) ResetCircled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circledPages = make(map[int]bool)
}

// MarkCircled records that a page received an image circle this batch.
// It returns false when the page was already circled.
func (s *Session) MarkCircled(page int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.circledPages[page] {
		return false
	}
	s.circledPages[page] = true
	return true
}

func (s *Session) Add(h *domain.Highlight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = append(s.highlights, h)
}

// ReplaceAll swaps the session's highlight set, used when restoring
// persisted annotations on document load.
func (s *Session) ReplaceAll(hs []*domain.Highlight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = hs
}

func (s *Session) All() []*domain.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Highlight, len(s.highlights))
	copy(out, s.highlights)
	return out
}

func (s *Session) ByPage(page int) []*domain.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Highlight
	for _, h := range s.highlights {
		if h.PageNumber == page {
			out = append(out, h)
		}
	}
	return out
}

// SessionManager opens and caches grounding sessions. Opening a session
// loads the document, extracts its page text corpus through the page cache
// and keeps the renderer alive until the session closes.
type SessionManager struct {
	factory driven.RendererFactory
	cache   driven.PageTextCache
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(factory driven.RendererFactory, cache driven.PageTextCache, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		factory:  factory,
		cache:    cache,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func sessionKey(userID, documentID string) string {
	return userID + "/" + documentID
}

// Get returns the session for the user and document, opening the document
// and building the corpus on first use. The second return reports whether
// the session was created by this call.
func (m *SessionManager) Get(ctx context.Context, userID, documentID string) (*Session, bool, error) {
	key := sessionKey(userID, documentID)

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s, false, nil
	}
	m.mu.Unlock()

	renderer, err := m.factory.Open(ctx, documentID)
	if err != nil {
		return nil, false, fmt.Errorf("opening document %s: %w", documentID, err)
	}

	corpus, err := m.buildCorpus(ctx, documentID, renderer)
	if err != nil {
		renderer.Close()
		return nil, false, fmt.Errorf("extracting text for document %s: %w", documentID, err)
	}

	s := &Session{
		documentID:   documentID,
		userID:       userID,
		renderer:     renderer,
		corpus:       corpus,
		circledPages: make(map[int]bool),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[key]; ok {
		renderer.Close()
		return existing, false, nil
	}
	m.sessions[key] = s
	return s, true, nil
}

func (m *SessionManager) buildCorpus(ctx context.Context, documentID string, r driven.Renderer) ([]domain.PageText, error) {
	if m.cache != nil {
		if corpus, err := m.cache.Get(ctx, documentID); err == nil {
			return corpus, nil
		} else if err != domain.ErrNotFound {
			m.logger.Warn("page text cache read failed", "document_id", documentID, "error", err)
		}
	}

	numPages := r.NumPages()
	corpus := make([]domain.PageText, 0, numPages)
	for page := 1; page <= numPages; page++ {
		text, err := r.PageText(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		corpus = append(corpus, domain.PageText{Page: page, Text: text})
	}

	if m.cache != nil {
		if err := m.cache.Put(ctx, documentID, corpus); err != nil {
			m.logger.Warn("page text cache write failed", "document_id", documentID, "error", err)
		}
	}
	return corpus, nil
}

// Close tears down the session for the user and document, releasing the
// renderer. Closing an absent session is a no-op.
func (m *SessionManager) Close(userID, documentID string) {
	key := sessionKey(userID, documentID)

	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if !ok {
		return
	}
	if err := s.renderer.Close(); err != nil {
		m.logger.Warn("closing renderer", "document_id", documentID, "error", err)
	}
}
