// Command server runs the carrier flight-deck simulation and serves it to
// connected clients over TCP. Liveness and readiness endpoints are exposed on
// a separate HTTP port for supervisors.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/opd-ai/go-carrier/pkg/config"
	"github.com/opd-ai/go-carrier/pkg/engine"
	"github.com/opd-ai/go-carrier/pkg/health"
	"github.com/opd-ai/go-carrier/pkg/logging"
	"github.com/opd-ai/go-carrier/pkg/network"
	"github.com/opd-ai/go-carrier/pkg/resource"
)

func main() {
	logger := logging.NewLogger().With("component", "server")
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	writeDefault := flag.Bool("default", false, "Write a default configuration file and exit")
	flag.Parse()

	if *writeDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to write default configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Wrote default configuration file", "config_path", *configPath)
		return
	}

	gameConfig, envConfig, err := loadConfiguration(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Configuration failed", err, "config_path", *configPath)
		os.Exit(1)
	}

	addr := gameConfig.NetworkConfig.ServerAddress
	if addr == "" {
		logger.Error(ctx, "Server address not configured", nil,
			"hint", "set CARRIER_SERVER_ADDR and CARRIER_SERVER_PORT or provide them in the config file",
		)
		os.Exit(1)
	}

	game := engine.NewGame(gameConfig)
	server := network.NewGameServer(game, envConfig.MaxClients)

	// The monitor watches the simulation tick as well as host resources, so
	// it needs the game before Start.
	monitor := resource.NewMonitor(envConfig, game.Tick)
	if err := monitor.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource monitor", err)
		os.Exit(1)
	}

	checker := deckHealthChecker(game, server, monitor)
	healthServer := serveHealth(logger, checker)

	logger.Info(ctx, "Starting server",
		"address", addr,
		"max_clients", envConfig.MaxClients,
		"world_size", gameConfig.WorldSize,
	)
	if err := server.Start(addr); err != nil {
		logger.Error(ctx, "Failed to start server", err, "address", addr)
		os.Exit(1)
	}

	awaitShutdown(ctx, logger, envConfig, server, monitor, healthServer)
}

// loadConfiguration resolves the game and environment configuration, falling
// back to defaults when no config file exists on disk.
func loadConfiguration(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, *config.EnvironmentConfig, error) {
	var gameConfig *config.GameConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using defaults", "config_path", path)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		return nil, nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load environment config: %w", err)
	}

	return gameConfig, envConfig, nil
}

// deckHealthChecker registers the readiness checks the supervisor relies on:
// the game loop, the TCP listener, flight-deck accounting, and host budgets.
func deckHealthChecker(game *engine.Game, server *network.GameServer, monitor *resource.Monitor) *health.Checker {
	checker := health.NewChecker()
	checker.Register(health.NewSimulationCheck(server.GetGameRunning))
	checker.Register(health.NewListenerCheck(server.GetListenerAddress))
	checker.Register(health.NewDeckCheck(func() (int, int, int) {
		state := game.GetGameState()
		return state.Ship.Airborne, state.Ship.Cooling, state.Ship.Capacity
	}))
	checker.Register(resource.NewBudgetCheck(monitor))
	return checker
}

// serveHealth starts the HTTP health endpoint in the background and returns
// the server so shutdown can drain it. The port comes from
// CARRIER_HEALTH_PORT and defaults to 8080.
func serveHealth(logger *logging.Logger, checker *health.Checker) *http.Server {
	port := "8080"
	if envPort := os.Getenv("CARRIER_HEALTH_PORT"); envPort != "" {
		if _, err := strconv.Atoi(envPort); err == nil {
			port = envPort
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.LiveHandler)
	mux.HandleFunc("/ready", checker.ReadyHandler)

	healthServer := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(context.Background(), "Health endpoint listening", "port", port)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(context.Background(), "Health endpoint failed", err)
		}
	}()

	return healthServer
}

// awaitShutdown blocks until SIGINT or SIGTERM and then stops the components
// in dependency order, the monitor last so the drain itself stays observed.
func awaitShutdown(ctx context.Context, logger *logging.Logger, envConfig *config.EnvironmentConfig, server *network.GameServer, monitor *resource.Monitor, healthServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health endpoint shutdown failed", err)
	}

	server.Stop()

	if err := monitor.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Resource monitor shutdown failed", err)
	}
}
