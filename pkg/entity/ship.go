// pkg/entity/ship.go
package entity

import (
	"errors"

	"github.com/opd-ai/go-carrier/pkg/physics"
)

// Key identifies one of the carrier's movement controls.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyCount
)

// ErrNoCapacity is returned by Launch when every aircraft slot is either
// airborne or still cooling down.
var ErrNoCapacity = errors.New("no aircraft slot available")

// ShipStats contains the carrier's handling figures and deck limits.
type ShipStats struct {
	LinearSpeed  float64 // forward/backward speed
	AngularSpeed float64 // turn rate in rad/s, only while moving
	Size         float64 // recovery distance for returning aircraft
	RefillTime   float64 // cooldown before a used slot frees up
	Capacity     int     // aircraft slots, airborne plus cooling
}

// Ship is the player-controlled carrier. It owns the active aircraft and
// the refill timers that gate how many can be airborne at once.
type Ship struct {
	BaseEntity
	Stats ShipStats

	aircraftSpec AircraftSpec
	input        [KeyCount]bool

	aircraft     []*Aircraft
	refillTimers []float64
	clock        float64

	tickRotation float64
	tickVelocity physics.Vector2D
}

// NewShip creates a carrier at the given position with empty deck slots.
func NewShip(id ID, position physics.Vector2D, stats ShipStats, spec AircraftSpec) *Ship {
	return &Ship{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Active:   true,
		},
		Stats:        stats,
		aircraftSpec: spec,
		aircraft:     make([]*Aircraft, 0, stats.Capacity),
		refillTimers: make([]float64, 0, stats.Capacity),
	}
}

// SetKey records the pressed state of one movement control.
func (s *Ship) SetKey(key Key, pressed bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	s.input[key] = pressed
}

// GetTickRotation returns the rotation the carrier applied this tick.
// Part of the ShipPose view aircraft read during takeoff.
func (s *Ship) GetTickRotation() float64 {
	return s.tickRotation
}

// GetTickVelocity returns the displacement the carrier applied this tick.
func (s *Ship) GetTickVelocity() physics.Vector2D {
	return s.tickVelocity
}

// Aircraft returns the currently airborne aircraft.
func (s *Ship) Aircraft() []*Aircraft {
	return s.aircraft
}

// CoolingSlots returns how many slots are still cooling down after a
// recovery.
func (s *Ship) CoolingSlots() int {
	return len(s.refillTimers)
}

// CanLaunch reports whether a free slot exists: airborne plus cooling
// never exceeds capacity.
func (s *Ship) CanLaunch() bool {
	return len(s.aircraft)+len(s.refillTimers) < s.Stats.Capacity
}

// Launch spawns a new aircraft at the carrier's current pose. It returns
// ErrNoCapacity when airborne and cooling slots already fill the deck.
func (s *Ship) Launch() (*Aircraft, error) {
	if !s.CanLaunch() {
		return nil, ErrNoCapacity
	}
	aircraft := NewAircraft(GenerateID(), s.Position, s.Rotation, s.aircraftSpec)
	s.aircraft = append(s.aircraft, aircraft)
	return aircraft, nil
}

// Update advances the carrier and its aircraft by one tick and returns the
// aircraft recovered this tick. Turning is only effective while moving, the
// way a rudder needs way on. The this-tick rotation and displacement are
// recorded before the aircraft update so aircraft in takeoff ride the deck
// exactly.
func (s *Ship) Update(deltaTime float64, goal physics.Vector2D) []*Aircraft {
	linearSpeed := 0.0
	angularSpeed := 0.0

	if s.input[KeyForward] {
		linearSpeed = s.Stats.LinearSpeed
	} else if s.input[KeyBackward] {
		linearSpeed = -s.Stats.LinearSpeed
	}

	if s.input[KeyLeft] && linearSpeed != 0 {
		angularSpeed = s.Stats.AngularSpeed
	} else if s.input[KeyRight] && linearSpeed != 0 {
		angularSpeed = -s.Stats.AngularSpeed
	}

	s.tickRotation = angularSpeed * deltaTime
	s.Rotation += s.tickRotation

	s.tickVelocity = physics.FromAngle(s.Rotation, linearSpeed).Scale(deltaTime)
	s.Position = s.Position.Add(s.tickVelocity)

	s.expireRefillTimers()
	recovered := s.updateAircraft(deltaTime, goal)

	s.clock += deltaTime
	return recovered
}

// expireRefillTimers frees slots whose cooldown has elapsed.
func (s *Ship) expireRefillTimers() {
	kept := s.refillTimers[:0]
	for _, stamp := range s.refillTimers {
		if s.clock < stamp+s.Stats.RefillTime {
			kept = append(kept, stamp)
		}
	}
	s.refillTimers = kept
}

// updateAircraft ticks every aircraft, removes the ones that landed, and
// stamps one refill timer per recovery.
func (s *Ship) updateAircraft(deltaTime float64, goal physics.Vector2D) []*Aircraft {
	var recovered []*Aircraft
	kept := s.aircraft[:0]
	for _, aircraft := range s.aircraft {
		if aircraft.Update(deltaTime, s, goal) {
			kept = append(kept, aircraft)
		} else {
			recovered = append(recovered, aircraft)
			s.refillTimers = append(s.refillTimers, s.clock)
		}
	}
	s.aircraft = kept
	return recovered
}
