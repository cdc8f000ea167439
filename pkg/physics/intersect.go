// pkg/physics/intersect.go
package physics

import "math"

// verticalEpsilon is the direction-component magnitude below which the
// direct solve would divide by (near) zero and the mirrored solve is used.
const verticalEpsilon = 1e-9

// LineIntersection returns the intersection of the line through p1 along d1
// with the line through p2 along d2. It solves the 2x2 system
//
//	p1 + d1*n = p2 + d2*k
//
// directly for k and evaluates the second line at k. When d1.X is (near)
// zero the same solve is carried out with the axes swapped, which covers a
// vertical d1 without a division by zero. The second return value is false
// when the directions are parallel and no single intersection exists; the
// returned point is then p2.
func LineIntersection(p1, d1, p2, d2 Vector2D) (Vector2D, bool) {
	if math.Abs(d1.X) > verticalEpsilon {
		denom := (d1.Y*d2.X)/d1.X - d2.Y
		if math.Abs(denom) <= verticalEpsilon {
			return p2, false
		}
		k := (p2.Y - p1.Y - (d1.Y/d1.X)*(p2.X-p1.X)) / denom
		return Vector2D{X: p2.X + d2.X*k, Y: p2.Y + d2.Y*k}, true
	}

	if math.Abs(d1.Y) <= verticalEpsilon {
		// d1 is the zero vector; no line to intersect with.
		return p2, false
	}

	denom := (d1.X*d2.Y)/d1.Y - d2.X
	if math.Abs(denom) <= verticalEpsilon {
		return p2, false
	}
	k := (p2.X - p1.X - (d1.X/d1.Y)*(p2.Y-p1.Y)) / denom
	return Vector2D{X: p2.X + d2.X*k, Y: p2.Y + d2.Y*k}, true
}
