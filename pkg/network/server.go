// pkg/network/server.go
package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/opd-ai/go-carrier/pkg/engine"
	"github.com/opd-ai/go-carrier/pkg/entity"
	"github.com/opd-ai/go-carrier/pkg/event"
	"github.com/opd-ai/go-carrier/pkg/physics"
	"github.com/opd-ai/go-carrier/pkg/validation"
)

// MessageType defines the type of network message
type MessageType byte

const (
	ConnectRequest MessageType = iota
	ConnectResponse
	DisconnectNotification
	GameStateUpdate
	ControlInput
	PingRequest
	PingResponse
)

// GameServer handles network communication and game state
type GameServer struct {
	listener      net.Listener
	game          *engine.Game
	clients       map[entity.ID]*Client
	controllerID  entity.ID // client currently driving the carrier, 0 if none
	clientsLock   sync.RWMutex
	validator     *validation.MessageValidator
	running       bool
	updateRate    time.Duration
	maxClients    int
	ticksPerState int  // How many game ticks between full state updates
	partialState  bool // Whether to send lightweight updates between full updates
}

// Client represents a connected client
type Client struct {
	ID         entity.ID
	Conn       net.Conn
	PlayerName string
	Controller bool
	Connected  bool
	LastInput  time.Time
	Latency    time.Duration
}

// NewGameServer creates a new game server
func NewGameServer(game *engine.Game, maxClients int) *GameServer {
	nc := game.Config.NetworkConfig
	return &GameServer{
		game:          game,
		clients:       make(map[entity.ID]*Client),
		validator:     validation.NewMessageValidator(),
		running:       false,
		updateRate:    time.Second / time.Duration(nc.UpdateRate),
		maxClients:    maxClients,
		ticksPerState: nc.TicksPerState,
		partialState:  nc.UsePartialState,
	}
}

// Start starts the game server
func (s *GameServer) Start(address string) error {
	var err error
	s.listener, err = net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.running = true

	s.game.Start()

	go s.acceptConnections()
	go s.gameLoop()

	log.Printf("Game server started on %s", address)
	return nil
}

// Addr returns the listener address, or nil before Start.
func (s *GameServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// GetGameRunning reports whether the simulation loop is active. Used by
// health checks.
func (s *GameServer) GetGameRunning() bool {
	s.game.EntityLock.RLock()
	defer s.game.EntityLock.RUnlock()
	return s.game.Running
}

// GetListenerAddress returns the bound listener address, or an empty string
// before Start. Used by health checks.
func (s *GameServer) GetListenerAddress() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the game server
func (s *GameServer) Stop() {
	s.running = false

	s.clientsLock.Lock()
	for _, client := range s.clients {
		client.Conn.Close()
	}
	s.clientsLock.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}

	s.validator.Close()
	s.game.Stop()

	log.Println("Game server stopped")
}

// acceptConnections accepts new client connections
func (s *GameServer) acceptConnections() {
	for s.running {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running {
				log.Printf("Error accepting connection: %v", err)
			}
			continue
		}

		s.clientsLock.RLock()
		clientCount := len(s.clients)
		s.clientsLock.RUnlock()

		if clientCount >= s.maxClients {
			log.Printf("Rejecting connection, server full")
			conn.Close()
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a new client connection
func (s *GameServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	msgType, data, err := s.readMessage(conn)
	if err != nil {
		log.Printf("Error reading connect request: %v", err)
		return
	}

	if msgType != ConnectRequest {
		log.Printf("Expected connect request, got %d", msgType)
		return
	}

	var connectReq struct {
		PlayerName string `json:"playerName"`
	}

	if err := json.Unmarshal(data, &connectReq); err != nil {
		log.Printf("Error parsing connect request: %v", err)
		return
	}

	playerName, err := validation.ValidatePlayerName(connectReq.PlayerName)
	if err != nil {
		log.Printf("Rejecting connection: %v", err)
		errorResp := struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{
			Success: false,
			Error:   err.Error(),
		}
		s.sendMessage(conn, ConnectResponse, errorResp)
		return
	}

	clientID := entity.GenerateID()
	client := &Client{
		ID:         clientID,
		Conn:       conn,
		PlayerName: playerName,
		Connected:  true,
		LastInput:  time.Now(),
	}

	// The first connected client drives the carrier; later clients observe.
	s.clientsLock.Lock()
	if s.controllerID == 0 {
		s.controllerID = clientID
		client.Controller = true
	}
	s.clients[clientID] = client
	s.clientsLock.Unlock()

	successResp := struct {
		Success    bool      `json:"success"`
		ClientID   entity.ID `json:"clientID"`
		Controller bool      `json:"controller"`
	}{
		Success:    true,
		ClientID:   clientID,
		Controller: client.Controller,
	}

	s.sendMessage(conn, ConnectResponse, successResp)

	s.game.EventBus.Publish(event.NewPlayerEvent(
		event.PlayerJoined, s, uint64(clientID), playerName, client.Controller,
	))

	s.handleClientMessages(client)
}

// handleClientMessages processes messages from a connected client
func (s *GameServer) handleClientMessages(client *Client) {
	for client.Connected && s.running {
		msgType, data, err := s.readMessage(client.Conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("Error reading message from client %d: %v", client.ID, err)
			}
			break
		}

		switch msgType {
		case ControlInput:
			s.handleControlInput(client, data)

		case PingRequest:
			s.sendMessage(client.Conn, PingResponse, data)

		case DisconnectNotification:
			log.Printf("Client %d disconnecting", client.ID)
			client.Connected = false

		default:
			log.Printf("Unknown message type %d from client %d", msgType, client.ID)
		}
	}

	s.removeClient(client)
}

// ClickInput describes a mouse click in world coordinates
type ClickInput struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	LeftButton bool    `json:"leftButton"`
}

// ControlInputData represents the structure of carrier control messages
type ControlInputData struct {
	Forward   bool        `json:"forward"`
	Backward  bool        `json:"backward"`
	TurnLeft  bool        `json:"turnLeft"`
	TurnRight bool        `json:"turnRight"`
	Click     *ClickInput `json:"click,omitempty"`
}

// handleControlInput processes carrier control messages
func (s *GameServer) handleControlInput(client *Client, data []byte) {
	if !client.Controller {
		return // observers cannot drive
	}

	if err := s.validator.ValidateMessage(data, fmt.Sprintf("%d", client.ID)); err != nil {
		log.Printf("Rejecting input from client %d: %v", client.ID, err)
		return
	}

	var input ControlInputData
	if err := json.Unmarshal(data, &input); err != nil {
		log.Printf("Error parsing control input: %v", err)
		return
	}

	client.LastInput = time.Now()

	s.applyControlInput(&input)
}

// applyControlInput applies validated input to the simulation
func (s *GameServer) applyControlInput(input *ControlInputData) {
	s.game.SetKeyState(entity.KeyForward, input.Forward)
	s.game.SetKeyState(entity.KeyBackward, input.Backward)
	s.game.SetKeyState(entity.KeyLeft, input.TurnLeft)
	s.game.SetKeyState(entity.KeyRight, input.TurnRight)

	if input.Click != nil {
		world := physics.Vector2D{X: input.Click.X, Y: input.Click.Y}
		if err := s.game.HandleClick(world, input.Click.LeftButton); err != nil {
			log.Printf("Click ignored: %v", err)
		}
	}
}

// removeClient removes a client from the server
func (s *GameServer) removeClient(client *Client) {
	s.clientsLock.Lock()
	wasController := s.controllerID == client.ID
	delete(s.clients, client.ID)
	if wasController {
		s.promoteNextControllerLocked()
	}
	s.clientsLock.Unlock()

	s.game.EventBus.Publish(event.NewPlayerEvent(
		event.PlayerLeft, s, uint64(client.ID), client.PlayerName, wasController,
	))

	log.Printf("Client %d removed", client.ID)
}

// promoteNextControllerLocked hands carrier control to any remaining client.
// Callers hold clientsLock.
func (s *GameServer) promoteNextControllerLocked() {
	s.controllerID = 0
	for id, client := range s.clients {
		if client.Connected {
			s.controllerID = id
			client.Controller = true
			log.Printf("Client %d promoted to controller", id)
			return
		}
	}
}

// gameLoop runs the main game loop
func (s *GameServer) gameLoop() {
	ticker := time.NewTicker(s.updateRate)
	defer ticker.Stop()

	for s.running {
		<-ticker.C

		s.game.Update()

		if s.game.CurrentTick%uint64(s.ticksPerState) == 0 {
			s.sendFullStateUpdate()
		} else if s.partialState {
			s.sendPartialStateUpdate()
		}
	}
}

// sendFullStateUpdate sends a complete game state to all clients
func (s *GameServer) sendFullStateUpdate() {
	gameState := s.game.GetGameState()

	s.clientsLock.RLock()
	for _, client := range s.clients {
		if client.Connected {
			s.sendMessage(client.Conn, GameStateUpdate, gameState)
		}
	}
	s.clientsLock.RUnlock()
}

// sendPartialStateUpdate sends a state without per-aircraft detail between
// full updates. Clients keep animating from the last full snapshot.
func (s *GameServer) sendPartialStateUpdate() {
	currentState := s.game.GetGameState()
	partialState := &engine.GameState{
		Tick:    currentState.Tick,
		Ship:    currentState.Ship,
		Goal:    currentState.Goal,
		GoalSet: currentState.GoalSet,
	}

	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()

	for _, client := range s.clients {
		if client.Connected {
			s.sendMessage(client.Conn, GameStateUpdate, partialState)
		}
	}
}

// readMessage reads a message from a connection
func (s *GameServer) readMessage(conn net.Conn) (MessageType, []byte, error) {
	var msgType MessageType
	if err := binary.Read(conn, binary.BigEndian, &msgType); err != nil {
		return 0, nil, err
	}

	var msgLen uint16
	if err := binary.Read(conn, binary.BigEndian, &msgLen); err != nil {
		return 0, nil, err
	}

	data := make([]byte, msgLen)
	if _, err := io.ReadFull(conn, data); err != nil {
		return 0, nil, err
	}

	return msgType, data, nil
}

// sendMessage sends a message to a connection
func (s *GameServer) sendMessage(conn net.Conn, msgType MessageType, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if len(data) > 65535 {
		return errors.New("message too large")
	}

	if err := binary.Write(conn, binary.BigEndian, msgType); err != nil {
		return err
	}

	msgLen := uint16(len(data))
	if err := binary.Write(conn, binary.BigEndian, msgLen); err != nil {
		return err
	}

	if _, err := conn.Write(data); err != nil {
		return err
	}

	return nil
}
