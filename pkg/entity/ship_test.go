// pkg/entity/ship_test.go
package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-carrier/pkg/physics"
)

func testStats() ShipStats {
	return ShipStats{
		LinearSpeed:  0.5,
		AngularSpeed: 0.5,
		Size:         0.2,
		RefillTime:   10,
		Capacity:     5,
	}
}

func newTestShip() *Ship {
	return NewShip(GenerateID(), physics.Vector2D{}, testStats(), testSpec())
}

func TestShip_ForwardMotion(t *testing.T) {
	ship := newTestShip()
	ship.SetKey(KeyForward, true)

	ship.Update(1.0, physics.Vector2D{})

	if math.Abs(ship.Position.X-0.5) > 1e-9 || math.Abs(ship.Position.Y) > 1e-9 {
		t.Errorf("position = %v, expected {0.5 0}", ship.Position)
	}
	if ship.Rotation != 0 {
		t.Errorf("rotation = %v, expected 0", ship.Rotation)
	}
}

func TestShip_BackwardMotion(t *testing.T) {
	ship := newTestShip()
	ship.SetKey(KeyBackward, true)

	ship.Update(1.0, physics.Vector2D{})

	if math.Abs(ship.Position.X+0.5) > 1e-9 {
		t.Errorf("position = %v, expected {-0.5 0}", ship.Position)
	}
}

// The rudder needs way on: turning keys alone do nothing.
func TestShip_NoTurnWhileStopped(t *testing.T) {
	ship := newTestShip()
	ship.SetKey(KeyLeft, true)

	ship.Update(1.0, physics.Vector2D{})

	if ship.Rotation != 0 {
		t.Errorf("rotation = %v, expected 0 while stopped", ship.Rotation)
	}
	if ship.GetTickRotation() != 0 {
		t.Errorf("tick rotation = %v, expected 0", ship.GetTickRotation())
	}
}

func TestShip_TurnsWhileMoving(t *testing.T) {
	ship := newTestShip()
	ship.SetKey(KeyForward, true)
	ship.SetKey(KeyLeft, true)

	dt := 0.1
	ship.Update(dt, physics.Vector2D{})

	expected := ship.Stats.AngularSpeed * dt
	if math.Abs(ship.Rotation-expected) > 1e-9 {
		t.Errorf("rotation = %v, expected %v", ship.Rotation, expected)
	}
	if math.Abs(ship.GetTickRotation()-expected) > 1e-9 {
		t.Errorf("tick rotation = %v, expected %v", ship.GetTickRotation(), expected)
	}

	ship.SetKey(KeyLeft, false)
	ship.SetKey(KeyRight, true)
	ship.Update(dt, physics.Vector2D{})
	if ship.Rotation >= expected {
		t.Errorf("rotation = %v, expected a right turn below %v", ship.Rotation, expected)
	}
}

func TestShip_TickVelocityMatchesDisplacement(t *testing.T) {
	ship := newTestShip()
	ship.SetKey(KeyForward, true)

	before := ship.Position
	ship.Update(0.25, physics.Vector2D{})

	displacement := ship.Position.Sub(before)
	if displacement != ship.GetTickVelocity() {
		t.Errorf("tick velocity %v, displacement %v", ship.GetTickVelocity(), displacement)
	}
}

func TestShip_LaunchCapacity(t *testing.T) {
	ship := newTestShip()

	for i := 0; i < 5; i++ {
		if _, err := ship.Launch(); err != nil {
			t.Fatalf("launch %d failed: %v", i, err)
		}
	}

	if _, err := ship.Launch(); err != ErrNoCapacity {
		t.Errorf("sixth launch error = %v, expected ErrNoCapacity", err)
	}
	if got := len(ship.Aircraft()); got != 5 {
		t.Errorf("airborne count = %d, expected 5", got)
	}
}

func TestShip_LaunchesAtOwnPose(t *testing.T) {
	ship := newTestShip()
	ship.Position = physics.Vector2D{X: 3, Y: -2}
	ship.Rotation = 1.1

	aircraft, err := ship.Launch()
	if err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if aircraft.Position != ship.Position || aircraft.Rotation != ship.Rotation {
		t.Errorf("aircraft pose (%v, %v), expected ship pose (%v, %v)",
			aircraft.Position, aircraft.Rotation, ship.Position, ship.Rotation)
	}
}

// instantRecoverySpec makes every launched aircraft recover on its first
// update: zero patrol time and a generous recovery range.
func instantRecoverySpec() AircraftSpec {
	spec := testSpec()
	spec.LiveTime = 0
	spec.RecoveryRange = 100
	return spec
}

func TestShip_RecoveryStartsRefillTimer(t *testing.T) {
	ship := NewShip(GenerateID(), physics.Vector2D{}, testStats(), instantRecoverySpec())

	if _, err := ship.Launch(); err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	recovered := ship.Update(1.0/60.0, physics.Vector2D{})
	if len(recovered) != 1 {
		t.Fatalf("recovered %d aircraft, expected 1", len(recovered))
	}
	if got := len(ship.Aircraft()); got != 0 {
		t.Errorf("airborne count = %d, expected 0", got)
	}
	if got := ship.CoolingSlots(); got != 1 {
		t.Errorf("cooling slots = %d, expected exactly 1 per recovery", got)
	}
}

func TestShip_RefillTimerExpires(t *testing.T) {
	ship := NewShip(GenerateID(), physics.Vector2D{}, testStats(), instantRecoverySpec())

	ship.Launch()
	ship.Update(1.0/60.0, physics.Vector2D{}) // recovery, timer stamped

	// Sit idle past the refill time.
	for i := 0; i < 12; i++ {
		ship.Update(1.0, physics.Vector2D{})
	}

	if got := ship.CoolingSlots(); got != 0 {
		t.Errorf("cooling slots = %d, expected 0 after refill time", got)
	}
	if !ship.CanLaunch() {
		t.Errorf("CanLaunch() = false after the slot refilled")
	}
}

// Airborne plus cooling never exceeds capacity, whatever the sequence of
// launches and recoveries.
func TestShip_CapacityInvariant(t *testing.T) {
	ship := NewShip(GenerateID(), physics.Vector2D{}, testStats(), instantRecoverySpec())

	checkInvariant := func(step string) {
		total := len(ship.Aircraft()) + ship.CoolingSlots()
		if total > ship.Stats.Capacity {
			t.Fatalf("%s: airborne+cooling = %d exceeds capacity %d",
				step, total, ship.Stats.Capacity)
		}
	}

	for round := 0; round < 4; round++ {
		for i := 0; i < 7; i++ { // try to overfill
			ship.Launch()
			checkInvariant("launch")
		}
		ship.Update(1.0/60.0, physics.Vector2D{}) // mass recovery
		checkInvariant("recovery")

		// Spawn requests while slots are cooling must fail once full.
		for !ship.CanLaunch() {
			if _, err := ship.Launch(); err == nil {
				t.Fatalf("launch succeeded with no free slot")
			}
			ship.Update(2.5, physics.Vector2D{})
			checkInvariant("cooldown")
		}
	}
}
