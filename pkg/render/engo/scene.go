// pkg/render/engo/scene.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-carrier/pkg/engine"
	"github.com/opd-ai/go-carrier/pkg/event"
	"github.com/opd-ai/go-carrier/pkg/network"
)

// GameScene represents the main game scene in Engo
type GameScene struct {
	world *ecs.World

	// Network components
	client   *network.GameClient
	eventBus *event.Bus

	// Rendering components
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem

	// Latest state snapshot
	gameState *engine.GameState

	// World extent passed through to the HUD minimap
	worldSize float64
}

// NewGameScene creates a new game scene
func NewGameScene(client *network.GameClient, eventBus *event.Bus, worldSize float64) *GameScene {
	return &GameScene{
		client:    client,
		eventBus:  eventBus,
		worldSize: worldSize,
		world:     &ecs.World{},
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	// Sprites are generated procedurally, nothing to load from disk
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	// Set up the world
	scene.world = &ecs.World{}

	// Add the common systems (required for Engo)
	scene.world.AddSystem(&common.RenderSystem{})
	scene.world.AddSystem(&common.MouseSystem{})

	// Register key bindings before systems start polling them
	SetupInputBindings()
	SetupCameraControls()

	// Initialize camera system
	scene.camera = NewCameraSystem()
	scene.world.AddSystem(scene.camera)

	// Initialize renderer
	scene.renderer = NewEngoRenderer(scene.world, scene.camera)
	if err := scene.renderer.Initialize(); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}

	// Initialize input system
	scene.input = NewInputSystem(scene.client, scene.camera)
	scene.world.AddSystem(scene.input)

	// Initialize HUD system
	scene.hud = NewHUDSystem(scene.worldSize)
	scene.world.AddSystem(scene.hud)

	// Subscribe to game state updates
	go scene.handleGameStateUpdates()

	// Subscribe to events
	scene.subscribeToEvents()
}

// subscribeToEvents sets up connection status event handlers
func (scene *GameScene) subscribeToEvents() {
	scene.eventBus.Subscribe(network.ClientDisconnected, func(e event.Event) {
		scene.hud.SetConnectionStatus("Reconnecting")
	})
	scene.eventBus.Subscribe(network.ClientReconnected, func(e event.Event) {
		scene.hud.SetConnectionStatus("Connected")
	})
	scene.eventBus.Subscribe(network.ClientReconnectFailed, func(e event.Event) {
		scene.hud.SetConnectionStatus("Connection lost")
	})
}

// handleGameStateUpdates processes game state updates from the client
func (scene *GameScene) handleGameStateUpdates() {
	for gameState := range scene.client.GetGameStateChannel() {
		scene.gameState = gameState
		scene.updateGame(gameState)
	}
}

// updateGame draws one state snapshot
func (scene *GameScene) updateGame(gameState *engine.GameState) {
	// Clear the previous frame
	scene.renderer.Clear()

	// Render the carrier and keep the camera on it
	scene.renderer.RenderShip(gameState.Ship)
	scene.camera.SetTarget(gameState.Ship.Position)

	// Render aircraft
	for _, aircraftState := range gameState.Aircraft {
		scene.renderer.RenderAircraft(aircraftState)
	}

	// Render the patrol goal
	if gameState.GoalSet {
		scene.renderer.RenderGoal(gameState.Goal)
	} else {
		scene.renderer.RemoveGoal()
	}

	// Update HUD with current game state
	scene.hud.UpdateGameState(gameState)

	// Present the rendered frame
	scene.renderer.Present()
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	// The client owns the connection and closes it on shutdown
}
