// pkg/network/circuit_breaker_integration_test.go
package network

import (
	"testing"

	"github.com/opd-ai/go-carrier/pkg/event"
)

// The client's dial path runs through the uplink guard; a failed
// connect must leave the guard intact and record the failure.
func TestClientUplink_RecordsFailedDial(t *testing.T) {
	client := NewGameClient(event.NewEventBus())

	if client.uplink == nil {
		t.Fatal("client has no uplink guard")
	}
	if client.uplink.Open() {
		t.Fatal("breaker open before any dial")
	}

	// Nothing listens here; the dial goes through the guard and fails.
	if err := client.Connect("localhost:9", "TestPlayer"); err == nil {
		t.Fatal("expected connect to a dead port to fail")
	}

	if client.uplink.Counts().TotalFailures == 0 {
		t.Error("failed dial was not recorded by the breaker")
	}
}
