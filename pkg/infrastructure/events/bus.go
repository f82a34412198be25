package events

import (
	"sync"

	"go.uber.org/zap"
)

// Bus keeps published events per stream and dispatches them to subscribers
// on the publishing goroutine. A failing handler is logged and does not stop
// delivery to the others.
type Bus struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	log         *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		log:         log.Named("events"),
	}
}

var _ Publisher = (*Bus)(nil)

// Publish appends the event to its stream and notifies subscribers. A nil
// bus drops the event.
func (b *Bus) Publish(event Event) error {
	if b == nil {
		return nil
	}
	b.mutex.Lock()
	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       event.StreamID(),
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(b.streams[event.StreamID()]) + 1,
	}
	b.streams[versioned.Stream] = append(b.streams[versioned.Stream], versioned)
	handlers := append([]EventHandler(nil), b.subscribers[versioned.EventType]...)
	b.mutex.Unlock()

	for _, h := range handlers {
		if !h.CanHandle(versioned.EventType) {
			continue
		}
		if err := h.Handle(versioned); err != nil {
			b.log.Warn("event handler failed",
				zap.String("type", versioned.EventType),
				zap.String("stream", versioned.Stream),
				zap.Error(err))
		}
	}
	return nil
}

// ReadEvents returns the events of a stream starting at fromVersion (1-based)
func (b *Bus) ReadEvents(streamID string, fromVersion int) []Event {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	events := b.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}
	}
	return append([]Event(nil), events[fromVersion-1:]...)
}

func (b *Bus) Subscribe(eventTypes []string, handler EventHandler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	}
}
