// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-carrier/pkg/engine"
)

// HUDSystem manages the heads-up display
type HUDSystem struct {
	// HUD entities
	hudEntities []*ecs.BasicEntity

	// Status display
	connectionStatus string

	// Latest state snapshot
	gameState *engine.GameState

	// World extent for the minimap, in world units
	worldSize float64

	// Minimap
	minimapEnabled bool
	minimapSize    float32

	// Font for text rendering
	font *common.Font

	// Colors
	hudColor     color.Color
	okColor      color.Color
	alertColor   color.Color
	neutralColor color.Color
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(worldSize float64) *HUDSystem {
	return &HUDSystem{
		connectionStatus: "Connected",
		worldSize:        worldSize,
		minimapEnabled:   true,
		minimapSize:      200.0,
		hudColor:         color.RGBA{255, 255, 255, 255},
		okColor:          color.RGBA{0, 255, 0, 255},
		alertColor:       color.RGBA{255, 0, 0, 255},
		neutralColor:     color.RGBA{128, 128, 128, 255},
	}
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for HUD system
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {
	// Not used for HUD system
}

// Update updates the HUD display
func (hud *HUDSystem) Update(dt float32) {
	// Clear previous HUD entities
	hud.clearHUDEntities()

	// Render HUD components
	hud.renderDeckStatus()
	hud.renderGoalStatus()
	hud.renderConnectionStatus()

	if hud.minimapEnabled {
		hud.renderMinimap()
	}
}

// clearHUDEntities removes previous HUD entities
func (hud *HUDSystem) clearHUDEntities() {
	hud.hudEntities = hud.hudEntities[:0]
}

// renderDeckStatus renders the carrier's flight deck panel
func (hud *HUDSystem) renderDeckStatus() {
	if hud.gameState == nil {
		return
	}

	ship := hud.gameState.Ship
	statusText := fmt.Sprintf(
		"Airborne: %d\nCooling: %d\nReady: %d/%d",
		ship.Airborne,
		ship.Cooling,
		ship.Capacity-ship.Airborne-ship.Cooling,
		ship.Capacity,
	)

	statusColor := hud.hudColor
	if ship.Airborne+ship.Cooling >= ship.Capacity {
		statusColor = hud.alertColor
	}

	// Render status text at top-left corner
	hud.renderText(statusText, 10, 10, statusColor)
}

// renderGoalStatus renders the patrol goal coordinates
func (hud *HUDSystem) renderGoalStatus() {
	if hud.gameState == nil || !hud.gameState.GoalSet {
		return
	}

	goalText := fmt.Sprintf("Goal: %.1f, %.1f", hud.gameState.Goal.X, hud.gameState.Goal.Y)
	hud.renderText(goalText, 10, 80, hud.hudColor)
}

// renderConnectionStatus renders the connection status
func (hud *HUDSystem) renderConnectionStatus() {
	statusColor := hud.okColor
	if hud.connectionStatus != "Connected" {
		statusColor = hud.alertColor
	}

	hud.renderText(
		"Status: "+hud.connectionStatus,
		float32(engo.GameWidth())-150,
		10,
		statusColor,
	)
}

// renderMinimap renders a minimap showing the whole play area
func (hud *HUDSystem) renderMinimap() {
	minimapX := float32(engo.GameWidth()) - hud.minimapSize - 10
	minimapY := float32(30)

	// Render minimap background
	hud.renderRect(minimapX, minimapY, hud.minimapSize, hud.minimapSize, color.RGBA{0, 0, 0, 128})

	// Render minimap border
	hud.renderRectOutline(minimapX, minimapY, hud.minimapSize, hud.minimapSize, hud.hudColor)

	if hud.gameState == nil {
		return
	}

	// Carrier
	x, y := hud.minimapPoint(hud.gameState.Ship.Position.X, hud.gameState.Ship.Position.Y, minimapX, minimapY)
	hud.renderRect(x-2, y-2, 4, 4, hud.okColor)

	// Aircraft
	for _, aircraft := range hud.gameState.Aircraft {
		x, y := hud.minimapPoint(aircraft.Position.X, aircraft.Position.Y, minimapX, minimapY)
		hud.renderRect(x-1, y-1, 2, 2, hud.hudColor)
	}

	// Patrol goal
	if hud.gameState.GoalSet {
		x, y := hud.minimapPoint(hud.gameState.Goal.X, hud.gameState.Goal.Y, minimapX, minimapY)
		hud.renderRect(x-2, y-2, 4, 4, hud.alertColor)
	}
}

// minimapPoint maps a world position onto the minimap rectangle
func (hud *HUDSystem) minimapPoint(worldX, worldY float64, minimapX, minimapY float32) (float32, float32) {
	// World coordinates run from -worldSize/2 to +worldSize/2
	fracX := worldX/hud.worldSize + 0.5
	fracY := 0.5 - worldY/hud.worldSize

	x := minimapX + float32(fracX)*hud.minimapSize
	y := minimapY + float32(fracY)*hud.minimapSize

	return x, y
}

// renderText renders text at the specified position
func (hud *HUDSystem) renderText(text string, x, y float32, textColor color.Color) {
	// Create a text entity
	basic := ecs.NewBasic()

	renderComponent := common.RenderComponent{
		Drawable: common.Text{
			Font: hud.font,
			Text: text,
		},
		Color: textColor,
	}

	spaceComponent := common.SpaceComponent{
		Position: engo.Point{X: x, Y: y},
		Width:    float32(len(text) * 8), // Approximate width
		Height:   16,                     // Approximate height
	}

	// Add to HUD entities
	hud.hudEntities = append(hud.hudEntities, &basic)

	_ = renderComponent
	_ = spaceComponent
}

// renderRect renders a filled rectangle
func (hud *HUDSystem) renderRect(x, y, width, height float32, rectColor color.Color) {
	// Create a rectangle entity
	basic := ecs.NewBasic()

	renderComponent := common.RenderComponent{
		Drawable: common.Rectangle{
			BorderWidth: 0,
			BorderColor: color.Transparent,
		},
		Color: rectColor,
	}

	spaceComponent := common.SpaceComponent{
		Position: engo.Point{X: x, Y: y},
		Width:    width,
		Height:   height,
	}

	// Add to HUD entities
	hud.hudEntities = append(hud.hudEntities, &basic)

	_ = renderComponent
	_ = spaceComponent
}

// renderRectOutline renders a rectangle outline
func (hud *HUDSystem) renderRectOutline(x, y, width, height float32, outlineColor color.Color) {
	// Create a rectangle outline entity
	basic := ecs.NewBasic()

	renderComponent := common.RenderComponent{
		Drawable: common.Rectangle{
			BorderWidth: 2,
			BorderColor: outlineColor,
		},
		Color: color.Transparent,
	}

	spaceComponent := common.SpaceComponent{
		Position: engo.Point{X: x, Y: y},
		Width:    width,
		Height:   height,
	}

	// Add to HUD entities
	hud.hudEntities = append(hud.hudEntities, &basic)

	_ = renderComponent
	_ = spaceComponent
}

// SetConnectionStatus sets the connection status display
func (hud *HUDSystem) SetConnectionStatus(status string) {
	hud.connectionStatus = status
}

// GetConnectionStatus returns the current connection status display
func (hud *HUDSystem) GetConnectionStatus() string {
	return hud.connectionStatus
}

// UpdateGameState updates the HUD with the latest snapshot
func (hud *HUDSystem) UpdateGameState(gameState *engine.GameState) {
	hud.gameState = gameState
}

// SetMinimapEnabled enables or disables the minimap
func (hud *HUDSystem) SetMinimapEnabled(enabled bool) {
	hud.minimapEnabled = enabled
}

// IsMinimapEnabled returns whether the minimap is enabled
func (hud *HUDSystem) IsMinimapEnabled() bool {
	return hud.minimapEnabled
}

// SetMinimapSize sets the size of the minimap
func (hud *HUDSystem) SetMinimapSize(size float32) {
	hud.minimapSize = size
}

// GetMinimapSize returns the current minimap size
func (hud *HUDSystem) GetMinimapSize() float32 {
	return hud.minimapSize
}

// SetFont sets the font used for HUD text rendering
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}
