// events.go defines the event types for extension notifications.
//
// Events are fire-and-forget notifications sent after a change has been
// committed. Extensions observe; they cannot veto.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventSettingsChange EventType = "settings:change"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
}

// SettingsChangeEvent is fired after settings keys are written. Keys lists
// only the keys whose stored value changed.
type SettingsChangeEvent struct {
	Keys   []string
	Author string
}

func (e SettingsChangeEvent) EventType() EventType { return EventSettingsChange }

// Has reports whether key is among the changed keys.
func (e SettingsChangeEvent) Has(key string) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
