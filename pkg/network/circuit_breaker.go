// pkg/network/circuit_breaker.go
package network

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-carrier/pkg/config"
	"github.com/opd-ai/go-carrier/pkg/logging"
)

// LinkGuard wraps the client's uplink to the carrier server in a circuit
// breaker. When the server is unreachable, repeated dial attempts trip
// the breaker and fail fast instead of each waiting out a full timeout,
// which keeps the reconnect loop responsive to shutdown.
type LinkGuard struct {
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// NewLinkGuard builds a guard from the environment configuration
// (CARRIER_CB_* variables).
func NewLinkGuard(envConfig *config.EnvironmentConfig) *LinkGuard {
	logger := logging.NewLogger().With("component", "uplink")

	settings := gobreaker.Settings{
		Name:        "carrier-uplink",
		MaxRequests: uint32(envConfig.CircuitBreakerMaxRequests),
		Interval:    envConfig.CircuitBreakerInterval,
		Timeout:     envConfig.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(envConfig.CircuitBreakerMaxConsecutiveFails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "Uplink breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &LinkGuard{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Do runs op through the breaker. An open breaker rejects the call
// without invoking op.
func (g *LinkGuard) Do(ctx context.Context, op func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, op()
	})
	if err != nil {
		g.logger.Warn(ctx, "Uplink operation failed",
			"error", err,
			"state", g.breaker.State().String(),
		)
		return fmt.Errorf("uplink: %w", err)
	}
	return nil
}

// Open reports whether the breaker is currently rejecting calls.
func (g *LinkGuard) Open() bool {
	return g.breaker.State() == gobreaker.StateOpen
}

// State returns the breaker state for monitoring.
func (g *LinkGuard) State() gobreaker.State {
	return g.breaker.State()
}

// Counts returns the breaker's success/failure counters.
func (g *LinkGuard) Counts() gobreaker.Counts {
	return g.breaker.Counts()
}
