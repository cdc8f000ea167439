// pkg/entity/aircraft.go
package entity

import (
	"github.com/opd-ai/go-carrier/pkg/physics"
	"github.com/opd-ai/go-carrier/pkg/steering"
)

// FlightState is the lifecycle stage of an aircraft, derived from its age.
type FlightState int

const (
	// Takeoff rides the deck: pose slaved to the carrier, no own steering.
	Takeoff FlightState = iota
	// Patrol orbits the shared goal point.
	Patrol
	// Returning flies the landing approach back to the carrier.
	Returning
)

// String returns a short name for the flight state.
func (s FlightState) String() string {
	switch s {
	case Takeoff:
		return "takeoff"
	case Patrol:
		return "patrol"
	case Returning:
		return "returning"
	default:
		return "unknown"
	}
}

// AircraftSpec bundles the guidance laws and lifecycle timings an aircraft
// flies with.
type AircraftSpec struct {
	Guidance      *steering.Guidance
	TakeoffTime   float64 // seconds the pose stays slaved to the carrier
	LiveTime      float64 // seconds of patrol before the aircraft returns
	RecoveryRange float64 // distance to the carrier that counts as landed
}

// Aircraft is an autonomous flying unit that launches from, patrols around,
// and lands back on the carrier.
type Aircraft struct {
	BaseEntity
	Age  float64 // elapsed lifetime since launch, in seconds
	spec AircraftSpec
}

// NewAircraft creates an aircraft at the given pose, typically the
// carrier's own pose at the moment of launch.
func NewAircraft(id ID, position physics.Vector2D, angle float64, spec AircraftSpec) *Aircraft {
	return &Aircraft{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Rotation: angle,
			Active:   true,
		},
		spec: spec,
	}
}

// State derives the lifecycle stage from the aircraft's age.
func (a *Aircraft) State() FlightState {
	switch {
	case a.Age < a.spec.TakeoffTime:
		return Takeoff
	case a.Age < a.spec.LiveTime:
		return Patrol
	default:
		return Returning
	}
}

// ApproachPhase reports which landing approach leg the current geometry
// selects. The second return value is false while the aircraft is not
// returning yet.
func (a *Aircraft) ApproachPhase(ship ShipPose) (steering.Phase, bool) {
	if a.State() != Returning {
		return 0, false
	}
	_, phase := a.spec.Guidance.LandingDestination(ship.GetPosition(), ship.GetAngle(), a.Position)
	return phase, true
}

// Update advances the aircraft by one tick. It returns false once the
// aircraft has outlived its patrol time and come back within recovery range
// of the carrier; the caller removes it and starts a refill timer.
//
// During takeoff the aircraft does not steer: its heading copies the
// carrier's, its position is rotated rigidly about the carrier by the
// carrier's this-tick rotation, and it accumulates the carrier's this-tick
// velocity so it leaves the deck carrying the carrier's motion. After
// takeoff the guidance laws produce a destination and the heading swings
// toward it under the turn-rate clamp. In every state the aircraft thrusts
// along its heading up to max speed and integrates position.
func (a *Aircraft) Update(deltaTime float64, ship ShipPose, goal physics.Vector2D) bool {
	if a.Age >= a.spec.LiveTime {
		if ship.GetPosition().Sub(a.Position).Length() <= a.spec.RecoveryRange {
			a.Active = false
			return false
		}
	}

	if a.Age < a.spec.TakeoffTime {
		a.Velocity = a.Velocity.Add(ship.GetTickVelocity())
		a.Rotation = ship.GetAngle()
		a.Position = a.Position.Sub(ship.GetPosition()).
			Rotate(ship.GetTickRotation()).
			Add(ship.GetPosition())
	} else {
		destination := a.correctedDestination(ship, goal)
		a.Rotation += a.spec.Guidance.TurnToward(destination, a.Rotation, deltaTime)
	}

	params := a.spec.Guidance.Params()
	a.Velocity = physics.AccelerateAlongHeading(
		a.Velocity, a.Rotation, params.Acceleration, params.MaxSpeed, deltaTime)
	a.Position = a.Position.Add(a.Velocity.Scale(deltaTime))

	a.Age += deltaTime
	return true
}

// correctedDestination picks the landing or orbit destination for the
// current lifecycle stage and runs it through the steering correction.
func (a *Aircraft) correctedDestination(ship ShipPose, goal physics.Vector2D) physics.Vector2D {
	var destination physics.Vector2D
	if a.Age >= a.spec.LiveTime {
		destination, _ = a.spec.Guidance.LandingDestination(
			ship.GetPosition(), ship.GetAngle(), a.Position)
	} else {
		destination = a.spec.Guidance.OrbitDestination(goal, a.Position)
	}
	return a.spec.Guidance.Correct(destination, a.Velocity)
}
