package model

// Event identifies a lifecycle notification sent to observers.
type Event int

const (
	// EventReleased is sent when an element is disposed and about to be
	// released from its project.
	EventReleased Event = iota + 1
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle notifications from the elements it is
// subscribed to. Observers are compared by identity, so implementations
// should be pointer types.
type Observer interface {
	Notify(sender Element, ev Event)
}
