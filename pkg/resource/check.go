// pkg/resource/check.go
package resource

import (
	"context"
	"fmt"
)

// BudgetCheck reports the monitor's view of the host budget in a form
// the health checker can aggregate.
type BudgetCheck struct {
	monitor *Monitor
}

// NewBudgetCheck creates a health check backed by the monitor's samples.
func NewBudgetCheck(monitor *Monitor) *BudgetCheck {
	return &BudgetCheck{monitor: monitor}
}

// Name returns the name of this health check.
func (b *BudgetCheck) Name() string {
	return "host_budget"
}

// Check fails when heap usage passed its ceiling, worker count passed
// 80% of its cap, or the simulation tick stopped advancing.
func (b *BudgetCheck) Check(ctx context.Context) error {
	stats := b.monitor.Stats()

	if stats.HeapMB > stats.MaxMemoryMB {
		return fmt.Errorf("heap %dMB over %dMB ceiling", stats.HeapMB, stats.MaxMemoryMB)
	}

	workerThreshold := stats.MaxWorkers * 4 / 5
	if stats.Workers > workerThreshold {
		return fmt.Errorf("workers %d over 80%% threshold (%d/%d)",
			stats.Workers, workerThreshold, stats.MaxWorkers)
	}

	if stats.SimStalled {
		return fmt.Errorf("simulation stalled at tick %d", stats.SimTick)
	}

	return nil
}
