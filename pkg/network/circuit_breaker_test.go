// pkg/network/circuit_breaker_test.go
package network

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-carrier/pkg/config"
)

func breakerConfig(maxFails int, timeout time.Duration) *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		CircuitBreakerMaxRequests:         1,
		CircuitBreakerInterval:            time.Minute,
		CircuitBreakerTimeout:             timeout,
		CircuitBreakerMaxConsecutiveFails: maxFails,
	}
}

func TestLinkGuard_PassesThroughSuccess(t *testing.T) {
	guard := NewLinkGuard(breakerConfig(3, time.Minute))

	dialed := false
	err := guard.Do(context.Background(), func() error {
		dialed = true
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed on healthy uplink: %v", err)
	}
	if !dialed {
		t.Error("operation was not invoked")
	}
	if guard.Open() {
		t.Error("breaker opened after a success")
	}
}

func TestLinkGuard_WrapsFailure(t *testing.T) {
	guard := NewLinkGuard(breakerConfig(3, time.Minute))

	dialErr := errors.New("connection refused")
	err := guard.Do(context.Background(), func() error { return dialErr })
	if err == nil {
		t.Fatal("Do should propagate the dial failure")
	}
	if !errors.Is(err, dialErr) {
		t.Errorf("error chain lost the dial failure: %v", err)
	}
	if !strings.Contains(err.Error(), "uplink") {
		t.Errorf("error = %q, want uplink context", err)
	}
}

func TestLinkGuard_TripsAfterConsecutiveFailures(t *testing.T) {
	guard := NewLinkGuard(breakerConfig(3, time.Minute))

	serverDown := errors.New("dial tcp: connection refused")
	for i := 0; i < 3; i++ {
		guard.Do(context.Background(), func() error { return serverDown })
	}

	if !guard.Open() {
		t.Fatalf("breaker state = %v after 3 consecutive failures, want open", guard.State())
	}

	// An open breaker must reject without dialing
	dialed := false
	err := guard.Do(context.Background(), func() error {
		dialed = true
		return nil
	})
	if err == nil {
		t.Error("open breaker accepted an operation")
	}
	if dialed {
		t.Error("open breaker still invoked the dial")
	}
}

func TestLinkGuard_RecoversAfterTimeout(t *testing.T) {
	guard := NewLinkGuard(breakerConfig(2, 50*time.Millisecond))

	serverDown := errors.New("connection refused")
	for i := 0; i < 2; i++ {
		guard.Do(context.Background(), func() error { return serverDown })
	}
	if !guard.Open() {
		t.Fatal("breaker did not trip")
	}

	// After the recovery timeout the breaker goes half-open and a
	// successful dial closes it again
	time.Sleep(80 * time.Millisecond)

	err := guard.Do(context.Background(), func() error { return nil })
	if err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if guard.State() != gobreaker.StateClosed {
		t.Errorf("breaker state = %v after successful probe, want closed", guard.State())
	}
}

func TestLinkGuard_Counts(t *testing.T) {
	guard := NewLinkGuard(breakerConfig(10, time.Minute))

	guard.Do(context.Background(), func() error { return nil })
	guard.Do(context.Background(), func() error { return errors.New("refused") })

	counts := guard.Counts()
	if counts.TotalSuccesses != 1 {
		t.Errorf("TotalSuccesses = %d, want 1", counts.TotalSuccesses)
	}
	if counts.TotalFailures != 1 {
		t.Errorf("TotalFailures = %d, want 1", counts.TotalFailures)
	}
}
