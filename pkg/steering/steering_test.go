// pkg/steering/steering_test.go
package steering

import (
	"math"
	"testing"

	"github.com/opd-ai/go-carrier/pkg/physics"
)

const epsilon = 1e-9

// testParams mirrors the default aircraft performance figures.
func testParams() Params {
	return Params{
		MaxSpeed:     2.5,
		Acceleration: 0.3,
		TurnRate:     2.5,
		LandingSpeed: 2.5 / 1.5,
		TargetRadius: 1.5,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func vectorsAlmostEqual(a, b physics.Vector2D) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestParams_LandingRadius(t *testing.T) {
	p := testParams()

	rotationTravel := (math.Pi / p.TurnRate) * p.MaxSpeed
	slowdownTime := (p.MaxSpeed - p.LandingSpeed) / p.Acceleration
	slowdownTravel := (p.MaxSpeed - p.LandingSpeed) * slowdownTime / 2

	expected := rotationTravel + slowdownTravel
	if r := p.LandingRadius(); !almostEqual(r, expected) {
		t.Errorf("LandingRadius() = %v, expected %v", r, expected)
	}

	// Sanity: the default figures give a radius of roughly 4.3 units.
	if r := p.LandingRadius(); r < 4.2 || r > 4.4 {
		t.Errorf("LandingRadius() = %v, expected about 4.3", r)
	}
}

func TestGuidance_Correct_ExactFormula(t *testing.T) {
	g := New(testParams())

	tests := []struct {
		name        string
		destination physics.Vector2D
		velocity    physics.Vector2D
	}{
		{
			name:        "stationary_far_destination",
			destination: physics.Vector2D{X: 100, Y: 0},
			velocity:    physics.Vector2D{},
		},
		{
			name:        "moving_sideways",
			destination: physics.Vector2D{X: 0, Y: 50},
			velocity:    physics.Vector2D{X: 2, Y: 0},
		},
		{
			name:        "moving_away",
			destination: physics.Vector2D{X: -30, Y: -40},
			velocity:    physics.Vector2D{X: 1, Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Correct(tt.destination, tt.velocity)
			expected := tt.destination.Normalize().Scale(g.Params().MaxSpeed).Sub(tt.velocity)
			if !vectorsAlmostEqual(result, expected) {
				t.Errorf("Correct() = %v, expected %v", result, expected)
			}
		})
	}
}

func TestGuidance_Correct_OvershootGuard(t *testing.T) {
	g := New(testParams())

	t.Run("reverses_when_closing_fast_inside_radius", func(t *testing.T) {
		destination := physics.Vector2D{X: 2, Y: 0} // inside landing radius
		velocity := physics.Vector2D{X: 2.5, Y: 0}  // closing at full speed

		result := g.Correct(destination, velocity)
		expected := destination.Neg().Normalize().Scale(g.Params().MaxSpeed).Sub(velocity)
		if !vectorsAlmostEqual(result, expected) {
			t.Errorf("Correct() = %v, expected reversed %v", result, expected)
		}
	})

	t.Run("no_reversal_when_slow", func(t *testing.T) {
		destination := physics.Vector2D{X: 2, Y: 0}
		velocity := physics.Vector2D{X: 1.0, Y: 0} // below landing speed

		result := g.Correct(destination, velocity)
		expected := destination.Normalize().Scale(g.Params().MaxSpeed).Sub(velocity)
		if !vectorsAlmostEqual(result, expected) {
			t.Errorf("Correct() = %v, expected %v", result, expected)
		}
	})

	t.Run("no_reversal_outside_radius", func(t *testing.T) {
		destination := physics.Vector2D{X: 50, Y: 0} // well outside
		velocity := physics.Vector2D{X: 2.5, Y: 0}

		result := g.Correct(destination, velocity)
		expected := destination.Normalize().Scale(g.Params().MaxSpeed).Sub(velocity)
		if !vectorsAlmostEqual(result, expected) {
			t.Errorf("Correct() = %v, expected %v", result, expected)
		}
	})

	t.Run("no_reversal_when_receding", func(t *testing.T) {
		destination := physics.Vector2D{X: 2, Y: 0}
		velocity := physics.Vector2D{X: -2.5, Y: 0} // moving away: cosine negative

		result := g.Correct(destination, velocity)
		expected := destination.Normalize().Scale(g.Params().MaxSpeed).Sub(velocity)
		if !vectorsAlmostEqual(result, expected) {
			t.Errorf("Correct() = %v, expected %v", result, expected)
		}
	})
}

func TestGuidance_OrbitDestination(t *testing.T) {
	g := New(testParams())
	goal := physics.Vector2D{X: 10, Y: -3}
	radius := g.Params().TargetRadius

	// For positions on the orbit circle the aim point must sit exactly
	// TargetRadius from the goal, perpendicular to the goal-to-aircraft
	// line, and the circling direction must be consistent all the way
	// around.
	for i := 0; i < 16; i++ {
		angle := float64(i) * math.Pi / 8
		position := goal.Add(physics.FromAngle(angle, radius))

		dest := g.OrbitDestination(goal, position)
		aim := position.Add(dest)

		offset := aim.Sub(goal)
		if !almostEqual(offset.Length(), radius) {
			t.Errorf("angle %v: aim offset %v from goal, expected %v",
				angle, offset.Length(), radius)
		}

		toGoal := goal.Sub(position)
		if dot := offset.Dot(toGoal); math.Abs(dot) > 1e-6 {
			t.Errorf("angle %v: aim offset not perpendicular to goal line (dot %v)",
				angle, dot)
		}

		// Same side of the goal line at every position: constant-sign cross
		// product means a consistent circling direction.
		cross := toGoal.X*dest.Y - toGoal.Y*dest.X
		if cross <= 0 {
			t.Errorf("angle %v: destination cross product %v, expected positive", angle, cross)
		}
	}
}

func TestGuidance_LandingDestination_Phases(t *testing.T) {
	g := New(testParams())
	shipPos := physics.Vector2D{}
	shipAngle := 0.0
	landingRadius := g.LandingRadius()

	tests := []struct {
		name          string
		position      physics.Vector2D
		expectedPhase Phase
		expectedDest  physics.Vector2D
	}{
		{
			name:          "far_off_centerline_captures",
			position:      physics.Vector2D{X: 5, Y: 10},
			expectedPhase: PhaseCapture,
			// intersection (5,0); aim offset landing-radius back toward the aircraft
			expectedDest: physics.Vector2D{X: 0, Y: landingRadius - 10},
		},
		{
			name:          "inside_radius_aligns",
			position:      physics.Vector2D{X: 5, Y: 2},
			expectedPhase: PhaseAlign,
			// intersection (5,0); aim offset landing-radius toward the ship
			expectedDest: physics.Vector2D{X: -landingRadius, Y: -2},
		},
		{
			name:          "on_centerline_goes_final",
			position:      physics.Vector2D{X: 5, Y: 0.005},
			expectedPhase: PhaseFinal,
			expectedDest:  physics.Vector2D{X: -5, Y: -0.005},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, phase := g.LandingDestination(shipPos, shipAngle, tt.position)
			if phase != tt.expectedPhase {
				t.Errorf("phase = %v, expected %v", phase, tt.expectedPhase)
			}
			if !vectorsAlmostEqual(dest, tt.expectedDest) {
				t.Errorf("destination = %v, expected %v", dest, tt.expectedDest)
			}
		})
	}
}

// A ship heading straight up exercises the mirrored intersection solve.
func TestGuidance_LandingDestination_VerticalHeading(t *testing.T) {
	g := New(testParams())
	shipPos := physics.Vector2D{}
	shipAngle := math.Pi / 2
	position := physics.Vector2D{X: 10, Y: 5}

	dest, phase := g.LandingDestination(shipPos, shipAngle, position)
	if phase != PhaseCapture {
		t.Errorf("phase = %v, expected %v", phase, PhaseCapture)
	}
	// Intersection is (0,5); the aim point sits landing-radius toward the
	// aircraft along +X.
	expected := physics.Vector2D{X: g.LandingRadius() - 10, Y: 0}
	if !vectorsAlmostEqual(dest, expected) {
		t.Errorf("destination = %v, expected %v", dest, expected)
	}
}

// The landing law must be a pure function of the poses involved.
func TestGuidance_LandingDestination_Pure(t *testing.T) {
	g := New(testParams())
	shipPos := physics.Vector2D{X: 3, Y: -7}
	shipAngle := 1.2
	position := physics.Vector2D{X: -20, Y: 14}

	dest1, phase1 := g.LandingDestination(shipPos, shipAngle, position)
	dest2, phase2 := g.LandingDestination(shipPos, shipAngle, position)

	if dest1 != dest2 || phase1 != phase2 {
		t.Errorf("repeated call diverged: (%v, %v) vs (%v, %v)",
			dest1, phase1, dest2, phase2)
	}
}

func TestGuidance_TurnToward(t *testing.T) {
	g := New(testParams())
	turnRate := g.Params().TurnRate

	t.Run("clamps_large_turns", func(t *testing.T) {
		// Destination straight up, heading along +X: quarter turn needed.
		rotation := g.TurnToward(physics.Vector2D{X: 0, Y: 1}, 0, 0.1)
		if !almostEqual(rotation, turnRate*0.1) {
			t.Errorf("rotation = %v, expected clamp %v", rotation, turnRate*0.1)
		}
	})

	t.Run("clamps_negative_turns", func(t *testing.T) {
		rotation := g.TurnToward(physics.Vector2D{X: 0, Y: -1}, 0, 0.1)
		if !almostEqual(rotation, -turnRate*0.1) {
			t.Errorf("rotation = %v, expected clamp %v", rotation, -turnRate*0.1)
		}
	})

	t.Run("returns_exact_small_angles", func(t *testing.T) {
		small := 0.05 // radians, below the per-tick clamp at dt=0.1
		dest := physics.Vector2D{X: 1, Y: 0}.Rotate(small)
		rotation := g.TurnToward(dest, 0, 0.1)
		if !almostEqual(rotation, small) {
			t.Errorf("rotation = %v, expected %v", rotation, small)
		}
	})

	t.Run("aligned_heading_needs_no_turn", func(t *testing.T) {
		rotation := g.TurnToward(physics.Vector2D{X: 1, Y: 0}, 0, 0.1)
		if !almostEqual(rotation, 0) {
			t.Errorf("rotation = %v, expected 0", rotation)
		}
	})
}
