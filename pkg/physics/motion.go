package physics

// AccelerateAlongHeading applies thrust along the current heading to a
// velocity and clamps the result to maxSpeed. The heading unit vector is
// (cos(heading), sin(heading)).
func AccelerateAlongHeading(velocity Vector2D, heading, acceleration, maxSpeed, deltaTime float64) Vector2D {
	thrust := FromAngle(heading, acceleration)
	velocity = velocity.Add(thrust.Scale(deltaTime))

	if velocity.Length() > maxSpeed {
		velocity = velocity.Normalize().Scale(maxSpeed)
	}
	return velocity
}
