// pkg/network/client.go
package network

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/opd-ai/go-carrier/pkg/config"
	"github.com/opd-ai/go-carrier/pkg/engine"
	"github.com/opd-ai/go-carrier/pkg/entity"
	"github.com/opd-ai/go-carrier/pkg/event"
)

// GameClient is the network side of a carrier viewer or controller. It
// holds one TCP connection to the server, feeds decoded state snapshots
// into a channel, and reconnects with backoff when the link drops.
type GameClient struct {
	conn                 net.Conn
	clientID             entity.ID
	controller           bool
	serverAddress        string
	playerName           string
	connected            bool
	receivedStates       chan *engine.GameState
	eventBus             *event.Bus
	mu                   sync.Mutex
	latency              time.Duration
	pingInterval         time.Duration
	reconnectDelay       time.Duration
	maxReconnectAttempts int
	uplink               *LinkGuard

	ctx               context.Context
	cancel            context.CancelFunc
	connectionTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
}

// NewGameClient creates a new game client
func NewGameClient(eventBus *event.Bus) *GameClient {
	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		envConfig = &config.EnvironmentConfig{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
	}

	return &GameClient{
		receivedStates:       make(chan *engine.GameState, 10),
		eventBus:             eventBus,
		pingInterval:         time.Second * 5,
		reconnectDelay:       time.Second * 3,
		maxReconnectAttempts: 5,
		uplink:               NewLinkGuard(envConfig),
		connectionTimeout:    30 * time.Second,
		readTimeout:          envConfig.ReadTimeout,
		writeTimeout:         envConfig.WriteTimeout,
	}
}

// Connect dials the server, performs the connect handshake, and starts
// the receive and ping loops. The server's response says whether this
// client got the controller seat.
func (c *GameClient) Connect(address, playerName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ctx, c.cancel = context.WithCancel(context.Background())

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.serverAddress = address
	c.playerName = playerName

	dialCtx, cancelDial := context.WithTimeout(c.ctx, c.connectionTimeout)
	defer cancelDial()

	// Dial through the breaker so a down server fails fast after a few
	// attempts instead of each one waiting out the full timeout.
	err := c.uplink.Do(dialCtx, func() error {
		conn, dialErr := (&net.Dialer{}).DialContext(dialCtx, "tcp", address)
		if dialErr != nil {
			return dialErr
		}
		c.conn = conn
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	if err := c.handshake(playerName); err != nil {
		c.teardown()
		return err
	}

	go c.messageLoop()
	go c.pingLoop()
	return nil
}

// handshake runs under the connection lock, before the loops start, so
// it writes and reads the connection directly.
func (c *GameClient) handshake(playerName string) error {
	req := struct {
		PlayerName string `json:"playerName"`
	}{PlayerName: playerName}

	data, err := encodePayload(req)
	if err != nil {
		return err
	}
	if err := c.writeFrame(c.ctx, ConnectRequest, data); err != nil {
		return fmt.Errorf("failed to send connect request: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.connectionTimeout)
	defer cancel()

	msgType, respData, err := c.readFrame(ctx)
	if err != nil {
		return fmt.Errorf("failed to read connect response: %w", err)
	}
	if msgType != ConnectResponse {
		return fmt.Errorf("unexpected response type: %d", msgType)
	}

	var resp struct {
		Success    bool      `json:"success"`
		Error      string    `json:"error"`
		ClientID   entity.ID `json:"clientID"`
		Controller bool      `json:"controller"`
	}
	if err := json.Unmarshal(respData, &resp); err != nil {
		return fmt.Errorf("failed to parse connect response: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("server rejected connection: %s", resp.Error)
	}

	c.clientID = resp.ClientID
	c.controller = resp.Controller
	c.connected = true
	return nil
}

// teardown closes the connection and resets state. Callers must hold the lock.
func (c *GameClient) teardown() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Disconnect notifies the server and closes the connection.
func (c *GameClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
	c.writeFrame(ctx, DisconnectNotification, nil)
	cancel()

	c.teardown()
	return nil
}

// IsController reports whether this client drives the carrier.
func (c *GameClient) IsController() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

// SendInput sends the held movement keys to the server
func (c *GameClient) SendInput(forward, backward, turnLeft, turnRight bool) error {
	return c.send(ControlInput, ControlInputData{
		Forward:   forward,
		Backward:  backward,
		TurnLeft:  turnLeft,
		TurnRight: turnRight,
	})
}

// SendClick sends a world-coordinate mouse click to the server
func (c *GameClient) SendClick(x, y float64, leftButton bool) error {
	return c.send(ControlInput, ControlInputData{
		Click: &ClickInput{X: x, Y: y, LeftButton: leftButton},
	})
}

// GetLatency returns the current latency to the server
func (c *GameClient) GetLatency() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latency
}

// GetGameStateChannel returns the channel for receiving game states
func (c *GameClient) GetGameStateChannel() <-chan *engine.GameState {
	return c.receivedStates
}

// messageLoop decodes incoming frames until the connection drops.
func (c *GameClient) messageLoop() {
	for c.connected {
		ctx, cancel := context.WithTimeout(c.ctx, c.readTimeout)
		msgType, data, err := c.readFrame(ctx)
		cancel()

		if err != nil {
			if c.connected && err != context.DeadlineExceeded && err != context.Canceled {
				c.handleDisconnect(err)
			}
			return
		}

		switch msgType {
		case GameStateUpdate:
			var gameState engine.GameState
			if json.Unmarshal(data, &gameState) != nil {
				continue
			}
			// Drop the snapshot when the renderer is behind; a newer
			// one is already on the way
			select {
			case c.receivedStates <- &gameState:
			default:
			}

		case PingResponse:
			var pingTime time.Time
			if json.Unmarshal(data, &pingTime) != nil {
				continue
			}
			c.mu.Lock()
			c.latency = time.Since(pingTime)
			c.mu.Unlock()

		default:
			// Ignore unknown message types
		}
	}
}

// pingLoop periodically sends ping requests to the server
func (c *GameClient) pingLoop() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for c.connected {
		<-ticker.C
		c.send(PingRequest, time.Now())
	}
}

// handleDisconnect publishes the drop and kicks off reconnection.
func (c *GameClient) handleDisconnect(err error) {
	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()

	if !wasConnected {
		return
	}

	c.eventBus.Publish(&event.BaseEvent{
		EventType: ClientDisconnected,
		Source:    c,
	})

	go c.attemptReconnect()
}

// attemptReconnect retries the connection with a fixed delay. While the
// uplink breaker is open the server is known to be down, so the loop
// waits a full breaker cycle instead of burning an attempt.
func (c *GameClient) attemptReconnect() {
	for attempt := 1; attempt <= c.maxReconnectAttempts; attempt++ {
		delay := c.reconnectDelay
		if c.uplink.Open() {
			delay *= 2
		}
		time.Sleep(delay)

		if err := c.Connect(c.serverAddress, c.playerName); err == nil {
			c.eventBus.Publish(&event.BaseEvent{
				EventType: ClientReconnected,
				Source:    c,
			})
			return
		}
	}

	c.eventBus.Publish(&event.BaseEvent{
		EventType: ClientReconnectFailed,
		Source:    c,
	})
}

// send serializes msg and writes it as one frame. It is the path for
// all post-handshake traffic and takes the connection lock.
func (c *GameClient) send(msgType MessageType, msg interface{}) error {
	data, err := encodePayload(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return errors.New("not connected")
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return c.writeFrame(ctx, msgType, data)
}

// encodePayload marshals a message payload and enforces the frame size
// cap imposed by the uint16 length prefix.
func encodePayload(msg interface{}) ([]byte, error) {
	if msg == nil {
		return nil, nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	if len(data) > 65535 {
		return nil, errors.New("message too large")
	}
	return data, nil
}

// writeFrame writes type, length, and payload. The write runs in a
// goroutine so a cancelled context can abandon a hung connection.
func (c *GameClient) writeFrame(ctx context.Context, msgType MessageType, data []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	} else {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	defer c.conn.SetWriteDeadline(time.Time{})

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic during write: %v", r)
			}
		}()
		if err := binary.Write(c.conn, binary.BigEndian, msgType); err != nil {
			done <- err
			return
		}
		if err := binary.Write(c.conn, binary.BigEndian, uint16(len(data))); err != nil {
			done <- err
			return
		}
		_, err := c.conn.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		c.conn.Close()
		return ctx.Err()
	}
}

// readFrame reads one framed message, honoring the context deadline.
func (c *GameClient) readFrame(ctx context.Context) (MessageType, []byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetReadDeadline(deadline)
	} else {
		c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	defer c.conn.SetReadDeadline(time.Time{})

	type frame struct {
		msgType MessageType
		data    []byte
		err     error
	}
	done := make(chan frame, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- frame{err: fmt.Errorf("panic during read: %v", r)}
			}
		}()
		var msgType MessageType
		if err := binary.Read(c.conn, binary.BigEndian, &msgType); err != nil {
			done <- frame{err: err}
			return
		}
		var msgLen uint16
		if err := binary.Read(c.conn, binary.BigEndian, &msgLen); err != nil {
			done <- frame{err: err}
			return
		}
		data := make([]byte, msgLen)
		if _, err := io.ReadFull(c.conn, data); err != nil {
			done <- frame{err: err}
			return
		}
		done <- frame{msgType: msgType, data: data}
	}()

	select {
	case f := <-done:
		return f.msgType, f.data, f.err
	case <-ctx.Done():
		c.conn.Close()
		return 0, nil, ctx.Err()
	}
}

// Client event types
const (
	ClientDisconnected    event.Type = "client_disconnected"
	ClientReconnected     event.Type = "client_reconnected"
	ClientReconnectFailed event.Type = "client_reconnect_failed"
)
