package plume

import "github.com/akmonengine/plume/actor"

const (
	INTERACTION EventType = iota
	BLOCKED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// InteractionEvent reports two items whose swept volumes met during the
// step. Motion proceeds for both; resolving the interaction is the
// consumer's business.
type InteractionEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e InteractionEvent) Type() EventType { return INTERACTION }

// BlockedEvent reports an item whose motion was rejected for the step
// because an obstacle sat in its path.
type BlockedEvent struct {
	Body     *actor.Body // the item whose motion was zeroed
	Obstacle *actor.Body
}

func (e BlockedEvent) Type() EventType { return BLOCKED }

type pairKey struct {
	a, b actor.ID
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(a, b actor.ID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// EventListener - callback for events
type EventListener func(event Event)

// Events collects the step's events and delivers them to subscribers at
// flush. Pair keys are normalized, so a pair emits at most one event per
// step regardless of orientation. Nothing persists across steps.
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
	seenPairs map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 64),
		seenPairs: make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emitInteraction(bodyA, bodyB *actor.Body) {
	key := makePairKey(bodyA.ID, bodyB.ID)
	if e.seenPairs[key] {
		return
	}
	e.seenPairs[key] = true

	e.buffer = append(e.buffer, InteractionEvent{BodyA: bodyA, BodyB: bodyB})
}

func (e *Events) emitBlocked(body, obstacle *actor.Body) {
	key := makePairKey(body.ID, obstacle.ID)
	if e.seenPairs[key] {
		return
	}
	e.seenPairs[key] = true

	e.buffer = append(e.buffer, BlockedEvent{Body: body, Obstacle: obstacle})
}

// flush sends all buffered events and clears the step's state
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}

	e.buffer = e.buffer[:0]
	clear(e.seenPairs)
}
