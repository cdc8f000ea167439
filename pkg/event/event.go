// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-carrier/pkg/physics"
)

// Type represents the type of event
type Type string

// Common event types
const (
	GameStarted       Type = "game_started"
	GameEnded         Type = "game_ended"
	GoalChanged       Type = "goal_changed"
	AircraftLaunched  Type = "aircraft_launched"
	AircraftRecovered Type = "aircraft_recovered"
	LaunchRejected    Type = "launch_rejected"
	PlayerJoined      Type = "player_joined"
	PlayerLeft        Type = "player_left"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	// Call each handler
	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// AircraftEvent contains information about aircraft lifecycle events
type AircraftEvent struct {
	BaseEvent
	AircraftID uint64
	ShipID     uint64
}

// NewAircraftEvent creates a new aircraft event
func NewAircraftEvent(eventType Type, source interface{}, aircraftID, shipID uint64) *AircraftEvent {
	return &AircraftEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		AircraftID: aircraftID,
		ShipID:     shipID,
	}
}

// GoalEvent contains information about goal placement
type GoalEvent struct {
	BaseEvent
	Position physics.Vector2D
}

// NewGoalEvent creates a new goal event
func NewGoalEvent(source interface{}, position physics.Vector2D) *GoalEvent {
	return &GoalEvent{
		BaseEvent: BaseEvent{
			EventType: GoalChanged,
			Source:    source,
		},
		Position: position,
	}
}

// PlayerEvent reports a client joining or leaving the session
type PlayerEvent struct {
	BaseEvent
	PlayerID   uint64
	PlayerName string
	Controller bool
}

// NewPlayerEvent creates a new player session event
func NewPlayerEvent(eventType Type, source interface{}, playerID uint64, playerName string, controller bool) *PlayerEvent {
	return &PlayerEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		PlayerID:   playerID,
		PlayerName: playerName,
		Controller: controller,
	}
}

// LaunchRejectedEvent signals that a spawn request found no free slot
type LaunchRejectedEvent struct {
	BaseEvent
	ShipID  uint64
	Reason  string
	Cooling int
}

// NewLaunchRejectedEvent creates a new launch rejection event
func NewLaunchRejectedEvent(source interface{}, shipID uint64, reason string, cooling int) *LaunchRejectedEvent {
	return &LaunchRejectedEvent{
		BaseEvent: BaseEvent{
			EventType: LaunchRejected,
			Source:    source,
		},
		ShipID:  shipID,
		Reason:  reason,
		Cooling: cooling,
	}
}
