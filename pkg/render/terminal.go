package render

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-carrier/pkg/engine"
	"github.com/opd-ai/go-carrier/pkg/entity"
	"github.com/opd-ai/go-carrier/pkg/physics"
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		centerPos: physics.Vector2D{
			X: 0,
			Y: 0,
		},
	}
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates. Screen Y
// grows downward, so world Y is negated to keep north up.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	screenY := int(-(pos.Y-r.centerPos.Y)/r.scale + float64(r.height)/2)
	return screenX, screenY
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	// Clear terminal
	fmt.Print("\033[H\033[2J")

	// Draw border
	fmt.Println("+" + strings.Repeat("-", r.width) + "+")

	// Draw buffer
	for y := range r.buffer {
		fmt.Print("|")
		for x := range r.buffer[y] {
			fmt.Print(string(r.buffer[y][x]))
		}
		fmt.Println("|")
	}

	// Draw border
	fmt.Println("+" + strings.Repeat("-", r.width) + "+")
}

// RenderShip implements entity.Renderer
func (r *TerminalRenderer) RenderShip(ship *entity.Ship) {
	r.plot(ship.Position, '@')
}

// RenderAircraft implements entity.Renderer. Returning aircraft get a
// distinct symbol so the approach is visible at a glance.
func (r *TerminalRenderer) RenderAircraft(aircraft *entity.Aircraft) {
	symbol := '^'
	if aircraft.State() == entity.Returning {
		symbol = 'v'
	}
	r.plot(aircraft.Position, symbol)
}

// RenderGoal implements entity.Renderer
func (r *TerminalRenderer) RenderGoal(position physics.Vector2D) {
	r.plot(position, 'X')
}

// RenderSnapshot draws a server game state snapshot. Networked clients
// render from snapshots instead of live entities.
func (r *TerminalRenderer) RenderSnapshot(state *engine.GameState) {
	r.plot(state.Ship.Position, '@')
	for _, ac := range state.Aircraft {
		symbol := '^'
		if ac.State == entity.Returning.String() {
			symbol = 'v'
		}
		r.plot(ac.Position, symbol)
	}
	if state.GoalSet {
		r.plot(state.Goal, 'X')
	}
}
