package dispatch

import (
	"sync"

	"go.uber.org/zap"
)

// EventType identifies an actor-level dispatch event.
type EventType int

const (
	ActorTurnStart EventType = iota
	ActorTurnEnd
	ActorDeath
)

var eventTypeNames = map[EventType]string{
	ActorTurnStart: "actor_turn_start",
	ActorTurnEnd:   "actor_turn_end",
	ActorDeath:     "actor_death",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event describes one actor-level occurrence during a dispatch pass.
type Event struct {
	Type EventType
	Turn int
	// ActorID is the registry's stable ID for the actor involved.
	ActorID int
	// ActorUID is the actor's external identity.
	ActorUID string
	Name     string
}

// TypedListener is a callback bound to one event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// Events is a synchronous publish/subscribe bus for actor-level dispatch
// events. Listener panics are recovered so observers cannot break a pass.
type Events struct {
	logger *zap.Logger

	mu             sync.RWMutex
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEvents constructs a fresh event bus.
func NewEvents(logger *zap.Logger) *Events {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Events{
		logger:         logger,
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for a specific event type and returns a
// handle, or -1 for a nil callback.
func (bus *Events) Subscribe(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes a listener by handle.
func (bus *Events) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to its typed listeners synchronously, in
// registration order.
func (bus *Events) Publish(event Event) {
	bus.mu.RLock()
	listeners := make([]TypedListener, len(bus.typedListeners[event.Type]))
	copy(listeners, bus.typedListeners[event.Type])
	bus.mu.RUnlock()

	for _, listener := range listeners {
		bus.invoke(listener, event)
	}
}

func (bus *Events) invoke(listener TypedListener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			bus.logger.Error("event listener panicked",
				zap.Int("handle", listener.Handle),
				zap.Stringer("event", event.Type),
				zap.String("actor", event.Name),
				zap.Any("panic", r),
			)
		}
	}()
	listener.Callback(event)
}
