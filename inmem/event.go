package inmem

import (
	"sync"

	"ladder"
)

// EventLog is an in-memory EventService keeping every published event
// in arrival order. Used by backtests and tests to inspect the
// controller's output stream.
type EventLog struct {
	eventsMutex sync.RWMutex
	events      []ladder.Event
}

func NewEventLog() *EventLog {
	return &EventLog{
		events: make([]ladder.Event, 0),
	}
}

func (el *EventLog) Publish(event ladder.Event) {
	el.eventsMutex.Lock()
	defer el.eventsMutex.Unlock()

	el.events = append(el.events, event)
}

func (el *EventLog) Events() []ladder.Event {
	el.eventsMutex.RLock()
	defer el.eventsMutex.RUnlock()

	snapshot := make([]ladder.Event, len(el.events))
	copy(snapshot, el.events)

	return snapshot
}

func (el *EventLog) EventsOfType(eventType ladder.EventType) []ladder.Event {
	el.eventsMutex.RLock()
	defer el.eventsMutex.RUnlock()

	events := make([]ladder.Event, 0)

	for _, event := range el.events {
		if event.Type() == eventType {
			events = append(events, event)
		}
	}

	return events
}
