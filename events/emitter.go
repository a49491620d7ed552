package events

import (
	"log"
	"sync"
)

// EventType labels what happened.
type EventType string

const (
	EventOpExecuted         EventType = "op_executed"
	EventDeposited          EventType = "deposited"
	EventWithdrawn          EventType = "withdrawn"
	EventGameCreated        EventType = "game_created"
	EventGameJoined         EventType = "game_joined"
	EventRandomnessRevealed EventType = "randomness_revealed"
	EventGameStatusSubmit   EventType = "game_status_submitted"
	EventShotResultReported EventType = "shot_result_reported"
	EventGameClosed         EventType = "game_closed"
	EventGameEnded          EventType = "game_ended"
)

// Event carries a typed payload emitted after a state change, for external
// observers and indexers.
type Event struct {
	Type      EventType      `json:"type"`
	OpID      string         `json:"op_id"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Handler is a callback invoked for matching events.
type Handler func(Event)

// Emitter is a simple pub/sub broker. Subscribe before Emit.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewEmitter creates an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers h to be called whenever typ is emitted.
func (e *Emitter) Subscribe(typ EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[typ] = append(e.handlers[typ], h)
}

// Emit delivers ev to all subscribers for ev.Type synchronously. Each
// handler is guarded by panic recovery so a misbehaving subscriber cannot
// take the engine down with it.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	handlers := e.handlers[ev.Type]
	e.mu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[events] handler panicked for %s: %v", ev.Type, r)
				}
			}()
			h(ev)
		}()
	}
}
