package entity

import "github.com/opd-ai/go-carrier/pkg/physics"

// Renderer is the placement sink the simulation reports poses to once per
// tick per live entity. The core never reads anything back from it.
type Renderer interface {
	RenderShip(ship *Ship)
	RenderAircraft(aircraft *Aircraft)
	RenderGoal(position physics.Vector2D)
	Clear()
	Present()
}
