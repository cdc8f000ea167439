// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-carrier/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is the base interface for all simulation objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	Render(r Renderer)
}

// ShipPose is the read-only view of the carrier an aircraft needs every
// tick: current pose plus the motion deltas the carrier applied this tick,
// which aircraft on deck inherit during takeoff. Tests substitute a mock.
type ShipPose interface {
	GetPosition() physics.Vector2D
	GetAngle() float64
	GetTickRotation() float64
	GetTickVelocity() physics.Vector2D
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Rotation float64
	Active   bool
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// GetAngle returns the entity's heading in radians
func (e *BaseEntity) GetAngle() float64 {
	return e.Rotation
}

// Render implementations dispatch to the matching Renderer method.
func (s *Ship) Render(r Renderer) {
	r.RenderShip(s)
}

func (a *Aircraft) Render(r Renderer) {
	r.RenderAircraft(a)
}

// GenerateID generates a unique ID for entities
var nextID ID = 1

func GenerateID() ID {
	id := nextID
	nextID++
	return id
}
