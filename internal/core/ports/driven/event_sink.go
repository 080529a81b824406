package driven

import "github.com/RyanKhPark/sf-asgmt/internal/core/domain"

// EventSink receives grounding pipeline outcome events. Implementations
// must not block: the pipeline publishes synchronously from its processing
// loop.
type EventSink interface {
	Publish(event domain.Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(event domain.Event)

// Publish calls the wrapped function.
func (f EventSinkFunc) Publish(event domain.Event) {
	f(event)
}
