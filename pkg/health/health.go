// Package health exposes liveness and readiness probes for the carrier
// server. Readiness aggregates named checks over the pieces that must be
// working before clients get routed here: the simulation loop, the TCP
// listener, the flight deck's bookkeeping, and the host budget.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Check is one readiness probe over a single component.
type Check interface {
	// Name returns the unique name of this check
	Name() string
	// Check returns an error when the component is unhealthy
	Check(ctx context.Context) error
}

// Result is the outcome of a single check.
type Result struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report aggregates every registered check. Ready is true only when all
// checks pass.
type Report struct {
	Ready  bool              `json:"ready"`
	Checks map[string]Result `json:"checks"`
}

// Checker runs registered checks and serves the probe endpoints.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewChecker creates an empty checker.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// Register adds a check, replacing any previous check with the same name.
func (c *Checker) Register(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// Run executes every registered check and aggregates the results.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report := Report{Ready: true, Checks: make(map[string]Result)}
	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			report.Ready = false
			report.Checks[name] = Result{OK: false, Detail: err.Error()}
			continue
		}
		report.Checks[name] = Result{OK: true}
	}
	return report
}

// LiveHandler answers the liveness probe. It only confirms the process
// can serve HTTP; readiness is the stronger signal.
func (c *Checker) LiveHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadyHandler answers the readiness probe: 200 with the full report
// when every check passes, 503 otherwise.
func (c *Checker) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := c.Run(ctx)

	w.Header().Set("Content-Type", "application/json")
	if report.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(report)
}

// SimulationCheck verifies the game loop is running.
type SimulationCheck struct {
	running func() bool
}

// NewSimulationCheck creates a check over the game loop's running flag.
func NewSimulationCheck(running func() bool) *SimulationCheck {
	return &SimulationCheck{running: running}
}

// Name returns the name of this check.
func (s *SimulationCheck) Name() string { return "simulation" }

// Check fails when the game loop has stopped.
func (s *SimulationCheck) Check(ctx context.Context) error {
	if !s.running() {
		return fmt.Errorf("game loop is not running")
	}
	return nil
}

// ListenerCheck verifies the TCP listener is accepting clients.
type ListenerCheck struct {
	addr func() string
}

// NewListenerCheck creates a check over the server's listener address.
func NewListenerCheck(addr func() string) *ListenerCheck {
	return &ListenerCheck{addr: addr}
}

// Name returns the name of this check.
func (l *ListenerCheck) Name() string { return "listener" }

// Check fails when no listener is bound.
func (l *ListenerCheck) Check(ctx context.Context) error {
	if l.addr() == "" {
		return fmt.Errorf("listener is not bound")
	}
	return nil
}

// DeckSnapshot reports the flight deck's slot accounting.
type DeckSnapshot func() (airborne, cooling, capacity int)

// DeckCheck verifies the deck's capacity accounting. Airborne plus
// cooling slots can never exceed capacity; a probe seeing otherwise
// means the launch/recovery bookkeeping is corrupt.
type DeckCheck struct {
	deck DeckSnapshot
}

// NewDeckCheck creates a check over the carrier's deck accounting.
func NewDeckCheck(deck DeckSnapshot) *DeckCheck {
	return &DeckCheck{deck: deck}
}

// Name returns the name of this check.
func (d *DeckCheck) Name() string { return "deck" }

// Check fails when slot usage exceeds capacity or capacity is not positive.
func (d *DeckCheck) Check(ctx context.Context) error {
	airborne, cooling, capacity := d.deck()
	if capacity <= 0 {
		return fmt.Errorf("deck capacity %d is not positive", capacity)
	}
	if airborne+cooling > capacity {
		return fmt.Errorf("deck accounting corrupt: %d airborne + %d cooling > capacity %d",
			airborne, cooling, capacity)
	}
	return nil
}
