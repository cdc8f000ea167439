// pkg/render/engo/input.go
package engo

import (
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-carrier/pkg/network"
	"github.com/opd-ai/go-carrier/pkg/physics"
)

// InputSystem handles keyboard and mouse input for the game
type InputSystem struct {
	client *network.GameClient
	camera *CameraSystem

	// Key state sent to the server
	forwardPressed   bool
	backwardPressed  bool
	turnLeftPressed  bool
	turnRightPressed bool

	// Input timing
	lastInputSent time.Time
	inputDelay    time.Duration
}

// NewInputSystem creates a new input system
func NewInputSystem(client *network.GameClient, camera *CameraSystem) *InputSystem {
	return &InputSystem{
		client:     client,
		camera:     camera,
		inputDelay: time.Millisecond * 50, // Send input every 50ms
	}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for input system
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Update processes input and sends commands to the server
func (is *InputSystem) Update(dt float32) {
	is.handleKeyInput()
	is.handleMouseInput()

	// Send key state to server if enough time has passed
	if time.Since(is.lastInputSent) >= is.inputDelay {
		is.sendInputToServer()
		is.lastInputSent = time.Now()
	}
}

// handleKeyInput reads the four carrier movement keys
func (is *InputSystem) handleKeyInput() {
	is.forwardPressed = engo.Input.Button("forward").Down()
	is.backwardPressed = engo.Input.Button("backward").Down()
	is.turnLeftPressed = engo.Input.Button("turnLeft").Down()
	is.turnRightPressed = engo.Input.Button("turnRight").Down()
}

// handleMouseInput converts clicks into world-space commands. A left click
// moves the patrol goal, a right click launches an aircraft.
func (is *InputSystem) handleMouseInput() {
	if engo.Input.Mouse.Action != engo.Press {
		return
	}

	var leftButton bool
	switch engo.Input.Mouse.Button {
	case engo.MouseButtonLeft:
		leftButton = true
	case engo.MouseButtonRight:
		leftButton = false
	default:
		return
	}

	screenPos := physics.Vector2D{
		X: float64(engo.Input.Mouse.X),
		Y: float64(engo.Input.Mouse.Y),
	}
	worldPos := is.camera.ScreenToWorld(screenPos)

	if err := is.client.SendClick(worldPos.X, worldPos.Y, leftButton); err != nil {
		// The click is dropped; the reconnect loop handles a dead link
		_ = err
	}
}

// sendInputToServer sends the current key state to the server
func (is *InputSystem) sendInputToServer() {
	err := is.client.SendInput(
		is.forwardPressed,
		is.backwardPressed,
		is.turnLeftPressed,
		is.turnRightPressed,
	)
	if err != nil {
		_ = err
	}
}

// KeyState returns the current movement key state
func (is *InputSystem) KeyState() (forward, backward, turnLeft, turnRight bool) {
	return is.forwardPressed, is.backwardPressed, is.turnLeftPressed, is.turnRightPressed
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton("forward", engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton("backward", engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton("turnLeft", engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton("turnRight", engo.KeyD, engo.KeyArrowRight)
}
