// pkg/engine/game.go
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/opd-ai/go-carrier/pkg/config"
	"github.com/opd-ai/go-carrier/pkg/entity"
	"github.com/opd-ai/go-carrier/pkg/event"
	"github.com/opd-ai/go-carrier/pkg/physics"
	"github.com/opd-ai/go-carrier/pkg/steering"
	"github.com/opd-ai/go-carrier/pkg/validation"
)

type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

// Game represents the core simulation state and logic: one player-driven
// carrier, its aircraft, and the patrol goal.
type Game struct {
	Config      *config.GameConfig
	Ship        *entity.Ship
	Goal        physics.Vector2D
	GoalSet     bool
	EntityLock  sync.RWMutex
	Running     bool
	TimeStep    float64 // Seconds per game tick
	CurrentTick uint64
	LastUpdate  time.Time
	EventBus    *event.Bus
	Status      GameStatus
	StartTime   time.Time
	EndTime     time.Time
	ElapsedTime float64 // seconds
}

// NewGame creates a new game with the specified configuration
func NewGame(cfg *config.GameConfig) *Game {
	game := &Game{
		Config:      cfg,
		TimeStep:    1.0 / 60.0, // 60 FPS
		CurrentTick: 0,
		LastUpdate:  time.Now(),
		EventBus:    event.NewEventBus(),
	}

	game.initShip()
	game.initGoal()

	return game
}

// initShip builds the carrier and its aircraft template from configuration.
func (g *Game) initShip() {
	shipCfg := g.Config.ShipConfig
	aircraftCfg := g.Config.AircraftConfig

	stats := entity.ShipStats{
		LinearSpeed:  shipCfg.LinearSpeed,
		AngularSpeed: shipCfg.AngularSpeed,
		Size:         shipCfg.Size,
		RefillTime:   shipCfg.RefillTime,
		Capacity:     shipCfg.Capacity,
	}

	guidance := steering.New(steering.Params{
		MaxSpeed:     aircraftCfg.LinearSpeed,
		Acceleration: aircraftCfg.LinearAcceleration,
		TurnRate:     aircraftCfg.AngularSpeed,
		LandingSpeed: aircraftCfg.LandingSpeed,
		TargetRadius: aircraftCfg.TargetRadius,
	})

	spec := entity.AircraftSpec{
		Guidance:      guidance,
		TakeoffTime:   aircraftCfg.TakeoffTime,
		LiveTime:      aircraftCfg.LiveTime,
		RecoveryRange: shipCfg.Size,
	}

	g.Ship = entity.NewShip(
		entity.GenerateID(),
		physics.Vector2D{X: shipCfg.StartX, Y: shipCfg.StartY},
		stats,
		spec,
	)
}

// initGoal places the initial patrol goal from configuration.
func (g *Game) initGoal() {
	g.Goal = physics.Vector2D{
		X: g.Config.GameRules.InitialGoalX,
		Y: g.Config.GameRules.InitialGoalY,
	}
	g.GoalSet = true
}

// Start begins the game update loop
func (g *Game) Start() {
	g.Running = true
	g.Status = GameStatusActive
	g.StartTime = time.Now()
	g.LastUpdate = time.Now()
	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.GameStarted,
		Source:    g,
	})
}

// Stop halts the game update loop
func (g *Game) Stop() {
	g.Running = false
	g.Status = GameStatusEnded
	g.EndTime = time.Now()
	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.GameEnded,
		Source:    g,
	})
}

// Update advances the game state by wall-clock elapsed time
func (g *Game) Update() {
	deltaTime := g.calculateDeltaTime()

	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.checkTimeLimit()
	g.step(deltaTime)
}

// Step advances the game state by a fixed interval. Used by tests and
// headless drivers that want determinism instead of wall-clock pacing.
func (g *Game) Step(deltaTime float64) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.step(deltaTime)
}

// step runs one simulation tick. Callers hold EntityLock.
func (g *Game) step(deltaTime float64) {
	recovered := g.Ship.Update(deltaTime, g.Goal)
	for _, aircraft := range recovered {
		g.EventBus.Publish(event.NewAircraftEvent(
			event.AircraftRecovered,
			g,
			uint64(aircraft.ID),
			uint64(g.Ship.ID),
		))
	}

	g.CurrentTick++
}

// checkTimeLimit ends the game when a configured time limit elapses.
func (g *Game) checkTimeLimit() {
	if g.Status == GameStatusActive {
		g.ElapsedTime = time.Since(g.StartTime).Seconds()
		if g.Config.GameRules.TimeLimit > 0 &&
			g.ElapsedTime >= float64(g.Config.GameRules.TimeLimit) {
			g.endGameInternal()
		}
	}
}

// calculateDeltaTime calculates the time since the last update and caps it.
func (g *Game) calculateDeltaTime() float64 {
	now := time.Now()
	deltaTime := now.Sub(g.LastUpdate).Seconds()
	g.LastUpdate = now

	// Cap delta time to prevent physics issues
	if deltaTime > 0.1 {
		deltaTime = 0.1
	}
	return deltaTime
}

// SetKeyState applies a held or released movement key to the carrier
func (g *Game) SetKeyState(key entity.Key, pressed bool) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.Ship.SetKey(key, pressed)
}

// HandleClick processes a mouse click in world coordinates. A left click
// moves the patrol goal; a right click requests an aircraft launch.
func (g *Game) HandleClick(world physics.Vector2D, leftButton bool) error {
	if err := validation.ValidateWorldPosition(world.X, world.Y, g.Config.WorldSize); err != nil {
		return err
	}

	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if leftButton {
		g.Goal = world
		g.GoalSet = true
		g.EventBus.Publish(event.NewGoalEvent(g, world))
		return nil
	}

	return g.launchAircraft()
}

// launchAircraft spawns an aircraft from the carrier. Callers hold EntityLock.
func (g *Game) launchAircraft() error {
	aircraft, err := g.Ship.Launch()
	if err != nil {
		if errors.Is(err, entity.ErrNoCapacity) {
			g.EventBus.Publish(event.NewLaunchRejectedEvent(
				g,
				uint64(g.Ship.ID),
				err.Error(),
				g.Ship.CoolingSlots(),
			))
		}
		return err
	}

	g.EventBus.Publish(event.NewAircraftEvent(
		event.AircraftLaunched,
		g,
		uint64(aircraft.ID),
		uint64(g.Ship.ID),
	))
	return nil
}

// endGameInternal ends the game (must be called with lock held)
func (g *Game) endGameInternal() {
	if g.Status == GameStatusEnded {
		return
	}
	g.Status = GameStatusEnded
	g.EndTime = time.Now()
	g.Running = false

	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.GameEnded,
		Source:    g,
	})
}

// Tick returns the current simulation tick counter.
func (g *Game) Tick() uint64 {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.CurrentTick
}

// GetGameState returns a snapshot of the current game state
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return &GameState{
		Tick:     g.CurrentTick,
		Ship:     g.getShipState(),
		Aircraft: g.getAircraftStates(),
		Goal:     g.Goal,
		GoalSet:  g.GoalSet,
	}
}

// getShipState creates a snapshot of the carrier's state.
func (g *Game) getShipState() ShipState {
	return ShipState{
		ID:       g.Ship.ID,
		Position: g.Ship.Position,
		Rotation: g.Ship.Rotation,
		Airborne: len(g.Ship.Aircraft()),
		Cooling:  g.Ship.CoolingSlots(),
		Capacity: g.Ship.Stats.Capacity,
	}
}

// getAircraftStates creates a snapshot of the current aircraft states.
func (g *Game) getAircraftStates() []AircraftState {
	airborne := g.Ship.Aircraft()
	states := make([]AircraftState, 0, len(airborne))
	for _, aircraft := range airborne {
		state := AircraftState{
			ID:       aircraft.ID,
			Position: aircraft.Position,
			Rotation: aircraft.Rotation,
			Velocity: aircraft.Velocity,
			State:    aircraft.State().String(),
		}
		if phase, ok := aircraft.ApproachPhase(g.Ship); ok {
			state.ApproachPhase = phase.String()
		}
		states = append(states, state)
	}
	return states
}

// GameState represents a snapshot of the game state
type GameState struct {
	Tick     uint64           `json:"tick"`
	Ship     ShipState        `json:"ship"`
	Aircraft []AircraftState  `json:"aircraft"`
	Goal     physics.Vector2D `json:"goal"`
	GoalSet  bool             `json:"goalSet"`
}

// ShipState represents a snapshot of the carrier's state
type ShipState struct {
	ID       entity.ID        `json:"id"`
	Position physics.Vector2D `json:"position"`
	Rotation float64          `json:"rotation"`
	Airborne int              `json:"airborne"`
	Cooling  int              `json:"cooling"`
	Capacity int              `json:"capacity"`
}

// AircraftState represents a snapshot of an aircraft's state
type AircraftState struct {
	ID            entity.ID        `json:"id"`
	Position      physics.Vector2D `json:"position"`
	Rotation      float64          `json:"rotation"`
	Velocity      physics.Vector2D `json:"velocity"`
	State         string           `json:"state"`
	ApproachPhase string           `json:"approachPhase,omitempty"`
}
