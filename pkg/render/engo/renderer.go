// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-carrier/pkg/engine"
	"github.com/opd-ai/go-carrier/pkg/entity"
	"github.com/opd-ai/go-carrier/pkg/physics"
)

// renderEntity pairs an ECS entity with the components registered for it so
// later frames can update them in place.
type renderEntity struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
}

// EngoRenderer draws game state snapshots using the Engo game engine
type EngoRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem
	camera       *CameraSystem

	// Entity management
	shipEntity       *renderEntity
	aircraftEntities map[entity.ID]*renderEntity
	goalEntity       *renderEntity

	// Aircraft present in the frame being built. Present removes the rest.
	seenAircraft map[entity.ID]bool

	// Asset management
	assets *AssetManager
}

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(world *ecs.World, camera *CameraSystem) *EngoRenderer {
	return &EngoRenderer{
		world:            world,
		camera:           camera,
		aircraftEntities: make(map[entity.ID]*renderEntity),
		seenAircraft:     make(map[entity.ID]bool),
		assets:           NewAssetManager(),
	}
}

// Initialize sets up the renderer's systems
func (r *EngoRenderer) Initialize() error {
	// Initialize render system
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)

	// Load assets
	return r.assets.LoadAssets()
}

// Clear implements the per-frame reset before state is drawn
func (r *EngoRenderer) Clear() {
	r.seenAircraft = make(map[entity.ID]bool)
}

// Present implements the per-frame flush after state is drawn
func (r *EngoRenderer) Present() {
	r.removeStaleAircraft()
}

// RenderShip draws the carrier from a state snapshot
func (r *EngoRenderer) RenderShip(ship engine.ShipState) {
	if r.shipEntity == nil {
		r.shipEntity = r.createEntity(r.assets.GetCarrierSprite(), 48, 48, color.RGBA{255, 255, 255, 255})
	}

	r.updateEntity(r.shipEntity, ship.Position, ship.Rotation)
}

// RenderAircraft draws an aircraft from a state snapshot
func (r *EngoRenderer) RenderAircraft(aircraft engine.AircraftState) {
	re, exists := r.aircraftEntities[aircraft.ID]
	if !exists {
		re = r.createEntity(r.assets.GetAircraftSprite(aircraft.State), 16, 16, color.RGBA{255, 255, 255, 255})
		r.aircraftEntities[aircraft.ID] = re
	}

	re.render.Drawable = r.assets.GetAircraftSprite(aircraft.State)
	re.render.Color = r.getFlightStateColor(aircraft.State)
	r.updateEntity(re, aircraft.Position, aircraft.Rotation)

	r.seenAircraft[aircraft.ID] = true
}

// RenderGoal draws the patrol goal marker
func (r *EngoRenderer) RenderGoal(position physics.Vector2D) {
	if r.goalEntity == nil {
		r.goalEntity = r.createEntity(r.assets.GetGoalSprite(), 16, 16, color.RGBA{255, 64, 64, 255})
	}

	r.updateEntity(r.goalEntity, position, 0)
}

// createEntity registers a new drawable entity with the render system
func (r *EngoRenderer) createEntity(drawable common.Drawable, width, height float32, tint color.Color) *renderEntity {
	re := &renderEntity{
		basic: ecs.NewBasic(),
		render: common.RenderComponent{
			Drawable: drawable,
			Color:    tint,
		},
		space: common.SpaceComponent{
			Position: engo.Point{X: 0, Y: 0},
			Width:    width,
			Height:   height,
		},
	}

	r.renderSystem.Add(&re.basic, &re.render, &re.space)

	return re
}

// updateEntity moves a drawable entity to the given world pose
func (r *EngoRenderer) updateEntity(re *renderEntity, position physics.Vector2D, rotation float64) {
	screen := r.camera.WorldToScreen(position)
	re.space.Position = engo.Point{
		X: float32(screen.X) - re.space.Width/2,
		Y: float32(screen.Y) - re.space.Height/2,
	}
	// SpaceComponent rotation is in degrees, clockwise on screen
	re.space.Rotation = float32(-rotation * 180 / math.Pi)
}

// getFlightStateColor returns the tint for an aircraft flight state
func (r *EngoRenderer) getFlightStateColor(flightState string) color.Color {
	switch flightState {
	case "takeoff":
		return color.RGBA{255, 255, 0, 255} // Yellow
	case "returning":
		return color.RGBA{0, 255, 255, 255} // Cyan
	default:
		return color.RGBA{255, 255, 255, 255} // White
	}
}

// removeStaleAircraft drops entities for aircraft missing from the last frame
func (r *EngoRenderer) removeStaleAircraft() {
	for id, re := range r.aircraftEntities {
		if !r.seenAircraft[id] {
			r.renderSystem.Remove(re.basic)
			delete(r.aircraftEntities, id)
		}
	}
}

// RemoveGoal removes the goal marker from rendering
func (r *EngoRenderer) RemoveGoal() {
	if r.goalEntity != nil {
		r.renderSystem.Remove(r.goalEntity.basic)
		r.goalEntity = nil
	}
}
