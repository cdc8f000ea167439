// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GameConfig contains configuration for a carrier simulation
type GameConfig struct {
	WorldSize      float64        `json:"worldSize"`
	ShipConfig     ShipConfig     `json:"ship"`
	AircraftConfig AircraftConfig `json:"aircraft"`
	NetworkConfig  NetworkConfig  `json:"network"`
	GameRules      GameRules      `json:"gameRules"`
}

// ShipConfig contains tuning for the carrier
type ShipConfig struct {
	LinearSpeed  float64 `json:"linearSpeed"`
	AngularSpeed float64 `json:"angularSpeed"`
	Size         float64 `json:"size"`
	RefillTime   float64 `json:"refillTime"`
	Capacity     int     `json:"capacity"`
	StartX       float64 `json:"startX"`
	StartY       float64 `json:"startY"`
}

// AircraftConfig contains tuning for launched aircraft
type AircraftConfig struct {
	TargetRadius       float64 `json:"targetRadius"`
	LinearAcceleration float64 `json:"linearAcceleration"`
	LinearSpeed        float64 `json:"linearSpeed"`
	AngularSpeed       float64 `json:"angularSpeed"`
	TakeoffTime        float64 `json:"takeoffTime"`
	LiveTime           float64 `json:"liveTime"`
	LandingSpeed       float64 `json:"landingSpeed"`
}

// NetworkConfig contains network-related configuration
type NetworkConfig struct {
	UpdateRate      int    `json:"updateRate"`
	TicksPerState   int    `json:"ticksPerState"`
	UsePartialState bool   `json:"usePartialState"`
	ServerPort      int    `json:"serverPort"`
	ServerAddress   string `json:"serverAddress"`
}

// GameRules contains game rules configuration
type GameRules struct {
	TimeLimit    int     `json:"timeLimit"`
	InitialGoalX float64 `json:"initialGoalX"`
	InitialGoalY float64 `json:"initialGoalY"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		WorldSize: 100,
		ShipConfig: ShipConfig{
			LinearSpeed:  0.5,
			AngularSpeed: 0.5,
			Size:         0.2,
			RefillTime:   10,
			Capacity:     5,
			StartX:       0,
			StartY:       0,
		},
		AircraftConfig: AircraftConfig{
			TargetRadius:       1.5,
			LinearAcceleration: 0.3,
			LinearSpeed:        2.5,
			AngularSpeed:       2.5,
			TakeoffTime:        3,
			LiveTime:           50,
			LandingSpeed:       2.5 / 1.5,
		},
		NetworkConfig: NetworkConfig{
			UpdateRate:      20,
			TicksPerState:   3,
			UsePartialState: true,
			ServerPort:      4566,
			ServerAddress:   "localhost:4566",
		},
		GameRules: GameRules{
			TimeLimit:    0,
			InitialGoalX: 10,
			InitialGoalY: 0,
		},
	}
}
