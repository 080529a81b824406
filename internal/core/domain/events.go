package domain

// EventType identifies a grounding pipeline outcome event.
type EventType string

const (
	// EventDocumentLoaded fires once a document's page corpus is built.
	EventDocumentLoaded EventType = "document_loaded"

	// EventPageFocused asks the host view to navigate to a page. Emitted
	// for the best-scored candidate of each answer only.
	EventPageFocused EventType = "page_focused"

	// EventHighlightAdded fires for every highlight the pipeline produced,
	// precise or fallback.
	EventHighlightAdded EventType = "highlight_added"

	// EventNoMatchFound fires when no sentence cleared the minimum score.
	EventNoMatchFound EventType = "no_match_found"

	// EventRenderFailed fires when the document cannot be rendered at all.
	EventRenderFailed EventType = "render_failed"
)

// Event is a grounding pipeline outcome. The host application subscribes to
// these instead of threading callbacks through the pipeline.
type Event struct {
	Type       EventType  `json:"type"`
	DocumentID string     `json:"document_id"`
	Page       int        `json:"page,omitempty"`
	NumPages   int        `json:"num_pages,omitempty"`
	Highlight  *Highlight `json:"highlight,omitempty"`
	Message    string     `json:"message,omitempty"`
}
