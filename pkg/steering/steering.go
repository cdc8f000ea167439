// Package steering implements the guidance laws for carrier aircraft: the
// velocity-correction steering law, the goal-orbiting law, and the
// three-phase landing approach onto a moving carrier.
package steering

import (
	"math"

	"github.com/opd-ai/go-carrier/pkg/physics"
)

// Params contains the flight performance limits used by the guidance laws.
type Params struct {
	MaxSpeed     float64 // maximum linear speed
	Acceleration float64 // linear acceleration along the heading
	TurnRate     float64 // maximum angular speed in rad/s
	LandingSpeed float64 // closing speed above which the overshoot guard trips
	TargetRadius float64 // orbit radius around the shared goal
}

// LandingRadius returns the distance at which an aircraft has to start
// worrying about overshooting its destination. Worst case the aircraft flies
// away from the destination at full speed: it covers a half turn at MaxSpeed
// plus the triangular deceleration distance from MaxSpeed down to
// LandingSpeed.
func (p Params) LandingRadius() float64 {
	rotationTime := math.Pi / p.TurnRate
	slowdownTime := (p.MaxSpeed - p.LandingSpeed) / p.Acceleration

	rotationTravel := rotationTime * p.MaxSpeed
	slowdownTravel := (p.MaxSpeed - p.LandingSpeed) * slowdownTime / 2

	return rotationTravel + slowdownTravel
}

// Phase identifies which leg of the landing approach a destination belongs
// to. It is derived from geometry on every call; no phase state is stored.
type Phase int

const (
	// PhaseCapture closes on the carrier's extended centerline from afar.
	PhaseCapture Phase = iota
	// PhaseAlign swings onto the centerline inside the landing radius.
	PhaseAlign
	// PhaseFinal runs straight down the deck to the carrier.
	PhaseFinal
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseCapture:
		return "capture"
	case PhaseAlign:
		return "align"
	case PhaseFinal:
		return "final"
	default:
		return "unknown"
	}
}

// alignmentTolerance is the distance to the centerline intersection below
// which the aircraft is considered lined up for final approach.
const alignmentTolerance = 0.01

// Guidance evaluates the steering laws for one set of Params. The landing
// radius is derived once at construction.
type Guidance struct {
	params        Params
	landingRadius float64
}

// New creates a Guidance with the landing radius precomputed from p.
func New(p Params) *Guidance {
	return &Guidance{
		params:        p,
		landingRadius: p.LandingRadius(),
	}
}

// Params returns the performance limits this guidance was built with.
func (g *Guidance) Params() Params {
	return g.params
}

// LandingRadius returns the precomputed overshoot threshold distance.
func (g *Guidance) LandingRadius() float64 {
	return g.landingRadius
}

// Correct turns a raw destination vector into a velocity correction: the
// overshoot guard is applied first, then the result is
//
//	MaxSpeed * normalize(destination) - velocity
//
// which cancels unhelpful velocity while demanding full speed toward the
// destination.
func (g *Guidance) Correct(destination, velocity physics.Vector2D) physics.Vector2D {
	destination = g.dampClosing(destination, velocity)
	return destination.Normalize().Scale(g.params.MaxSpeed).Sub(velocity)
}

// dampClosing reverses the destination when the aircraft is inside the
// landing radius and still closing faster than LandingSpeed, steering away
// to shed speed instead of overshooting.
//
// The closing-speed term scales the full velocity vector by the cosine of
// the angle between velocity and destination and takes its magnitude. That
// is not a textbook scalar projection, but the behavior of the whole
// approach is tuned around this exact formula, so it stays as is.
func (g *Guidance) dampClosing(destination, velocity physics.Vector2D) physics.Vector2D {
	if destination.Length() <= g.landingRadius {
		projection := velocity.Scale(physics.CosBetween(velocity, destination)).Length()
		if projection > g.params.LandingSpeed {
			return destination.Neg()
		}
	}
	return destination
}

// OrbitDestination returns the destination vector that keeps an aircraft
// circling the shared goal. The aim point sits TargetRadius away from the
// goal, perpendicular to the goal-to-aircraft line; recomputing it every
// tick as the aircraft moves produces a continuous orbit.
func (g *Guidance) OrbitDestination(goal, position physics.Vector2D) physics.Vector2D {
	toGoal := goal.Sub(position)
	aim := goal.Add(toGoal.Rotate(math.Pi / 2).Normalize().Scale(g.params.TargetRadius))
	return aim.Sub(position)
}

// LandingDestination returns the destination vector for the landing
// approach onto a carrier at shipPos heading shipAngle, together with the
// approach phase the geometry currently selects.
//
// The reference point is the intersection of the carrier's heading line
// with its perpendicular through the aircraft. Far from that intersection
// the aircraft closes on a point offset landing-radius toward itself
// (capture, a smooth curve-in); inside the landing radius it aims at a
// point offset toward the carrier (align, swinging onto the centerline);
// once lined up it heads straight for the carrier and the overshoot guard
// in Correct sheds the remaining speed (final).
func (g *Guidance) LandingDestination(shipPos physics.Vector2D, shipAngle float64, position physics.Vector2D) (physics.Vector2D, Phase) {
	forward := physics.Vector2D{X: 1, Y: 0}.Rotate(shipAngle)
	normal := forward.Rotate(math.Pi / 2)

	intersection, _ := physics.LineIntersection(shipPos, forward, position, normal)
	toAircraft := position.Sub(intersection)

	if toAircraft.Length() > alignmentTolerance {
		if toAircraft.Length() > g.landingRadius {
			dest := intersection.Add(toAircraft.Normalize().Scale(g.landingRadius)).Sub(position)
			return dest, PhaseCapture
		}
		toShip := shipPos.Sub(intersection)
		dest := intersection.Add(toShip.Normalize().Scale(g.landingRadius)).Sub(position)
		return dest, PhaseAlign
	}

	return shipPos.Sub(position), PhaseFinal
}

// TurnToward returns the rotation to apply this tick to swing the heading
// toward the destination, clamped to ±TurnRate*dt. The heading is the unit
// vector (cos(heading), sin(heading)).
func (g *Guidance) TurnToward(destination physics.Vector2D, heading, deltaTime float64) float64 {
	headingVec := physics.Vector2D{X: math.Cos(heading), Y: math.Sin(heading)}
	targetAngle := physics.SignedAngle(destination, headingVec)

	if targetAngle > 0 {
		return math.Min(g.params.TurnRate*deltaTime, targetAngle)
	}
	return math.Max(-g.params.TurnRate*deltaTime, targetAngle)
}
