// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-carrier/pkg/entity"
	"github.com/opd-ai/go-carrier/pkg/logging"
	"github.com/opd-ai/go-carrier/pkg/physics"
)

// NullRenderer is a simple implementation of entity.Renderer.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
}

// RenderShip implements entity.Renderer.
func (d *NullRenderer) RenderShip(ship *entity.Ship) {
	ctx := context.Background()
	if ship == nil {
		d.logger.Debug(ctx, "RenderShip called with nil ship")
		return
	}
	d.logger.Debug(ctx, "RenderShip called",
		"ship_id", ship.ID,
		"airborne", len(ship.Aircraft()),
	)
}

// RenderAircraft implements entity.Renderer.
func (d *NullRenderer) RenderAircraft(aircraft *entity.Aircraft) {
	ctx := context.Background()
	if aircraft == nil {
		d.logger.Debug(ctx, "RenderAircraft called with nil aircraft")
		return
	}
	d.logger.Debug(ctx, "RenderAircraft called",
		"aircraft_id", aircraft.ID,
		"flight_state", aircraft.State().String(),
	)
}

// RenderGoal implements entity.Renderer.
func (d *NullRenderer) RenderGoal(position physics.Vector2D) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderGoal called",
		"x", position.X,
		"y", position.Y,
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRenderer()
