package playlist

// EventType represents an engine event type.
type EventType int

const (
	EventQueueGenerated EventType = iota // Queue was rebuilt from the playlist
	EventItemPlayed                      // An item was returned by a play operation
	EventItemLooped                      // An item was pushed to the front of the queue
	EventQueueExhausted                  // PlayNext found nothing to play
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventQueueGenerated:
		return "queue_generated"
	case EventItemPlayed:
		return "item_played"
	case EventItemLooped:
		return "item_looped"
	case EventQueueExhausted:
		return "queue_exhausted"
	default:
		return "unknown"
	}
}

// Event represents an engine event.
type Event struct {
	Type     EventType
	Shuffled bool // Set on EventQueueGenerated when the queue was shuffled
	QueueLen int  // Queue length after the operation
}

// Observer receives engine events.
// Observe is called with the engine lock held and must not call back into the playlist.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(e Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}
