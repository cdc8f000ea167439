// cmd/client/main.go
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-carrier/pkg/config"
	"github.com/opd-ai/go-carrier/pkg/event"
	"github.com/opd-ai/go-carrier/pkg/network"
	"github.com/opd-ai/go-carrier/pkg/render"
	engorender "github.com/opd-ai/go-carrier/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	serverAddr := flag.String("server", "", "Server address (overrides config)")
	playerName := flag.String("name", "Player", "Player name")
	renderer := flag.String("renderer", "terminal", "Renderer type: 'terminal' or 'engo'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1024, "Window width (Engo only)")
	height := flag.Int("height", 768, "Window height (Engo only)")
	flag.Parse()

	// Load configuration
	var gameConfig *config.GameConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Printf("Configuration file not found, using default configuration")
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	// Use server address from command line if provided
	if *serverAddr == "" {
		*serverAddr = gameConfig.NetworkConfig.ServerAddress
	}

	// Create event bus
	eventBus := event.NewEventBus()

	// Create client
	client := network.NewGameClient(eventBus)

	// Connect to server
	log.Printf("Connecting to server at %s", *serverAddr)
	if err := client.Connect(*serverAddr, *playerName); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	if client.IsController() {
		log.Printf("Connected as carrier controller")
	} else {
		log.Printf("Connected as observer")
	}

	// Subscribe to events
	eventBus.Subscribe(network.ClientDisconnected, func(e event.Event) {
		log.Printf("Disconnected from server")
	})

	eventBus.Subscribe(network.ClientReconnected, func(e event.Event) {
		log.Printf("Reconnected to server")
	})

	eventBus.Subscribe(network.ClientReconnectFailed, func(e event.Event) {
		log.Printf("Failed to reconnect to server")
		os.Exit(1)
	})

	// Choose renderer based on command line flag
	switch *renderer {
	case "engo":
		startEngoRenderer(client, eventBus, gameConfig.WorldSize, *width, *height, *fullscreen)
	case "terminal":
		fallthrough
	default:
		startTerminalRenderer(client)
	}
}

// startEngoRenderer starts the Engo GUI client
func startEngoRenderer(client *network.GameClient, eventBus *event.Bus, worldSize float64, width, height int, fullscreen bool) {
	// Create the game scene
	scene := engorender.NewGameScene(client, eventBus, worldSize)

	// Configure Engo options
	opts := engo.RunOptions{
		Title:      "Go Carrier",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}

	// Run Engo with the game scene
	engo.Run(opts, scene)
}

// startTerminalRenderer starts the terminal-based client
func startTerminalRenderer(client *network.GameClient) {
	terminal := render.NewTerminalRenderer(80, 24, 1.0)

	// Draw incoming state snapshots
	go func() {
		for gameState := range client.GetGameStateChannel() {
			terminal.SetCenter(gameState.Ship.Position)
			terminal.Clear()
			terminal.RenderSnapshot(gameState)
			terminal.Present()

			log.Printf("tick=%d airborne=%d cooling=%d/%d",
				gameState.Tick, gameState.Ship.Airborne,
				gameState.Ship.Cooling, gameState.Ship.Capacity)
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Disconnecting from server...")
	client.Disconnect()
}
