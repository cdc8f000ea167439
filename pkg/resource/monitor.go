// Package resource tracks the carrier server's host budget: heap usage,
// the worker goroutines the server spawns, and the simulation tick. A
// stalled tick counter means the game loop stopped advancing even though
// the process is alive.
package resource

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-carrier/pkg/config"
	"github.com/opd-ai/go-carrier/pkg/logging"
)

// TickSource reports the simulation tick counter.
type TickSource func() uint64

// Monitor samples host resource usage on an interval and tracks the
// server's worker goroutines so shutdown can wait for them.
type Monitor struct {
	maxMemoryMB     int64
	maxWorkers      int64
	shutdownTimeout time.Duration
	sampleInterval  time.Duration
	tickSource      TickSource

	workers uint64 // atomic, high bit unused
	heapMB  int64  // atomic

	mu         sync.Mutex
	running    bool
	lastSample time.Time
	lastTick   uint64
	tickMoved  bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	logger *logging.Logger
}

// NewMonitor creates a monitor from the environment configuration. The
// tick source may be nil when no simulation is attached.
func NewMonitor(cfg *config.EnvironmentConfig, tick TickSource) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		maxMemoryMB:     cfg.MaxMemoryMB,
		maxWorkers:      int64(cfg.MaxGoroutines),
		shutdownTimeout: cfg.ShutdownTimeout,
		sampleInterval:  cfg.ResourceCheckInterval,
		tickSource:      tick,
		tickMoved:       true,
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
		logger:          logging.NewLogger().With("component", "resource_monitor"),
	}
}

// Start begins the sampling loop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	go m.sampleLoop()

	m.logger.Info(m.ctx, "Resource monitor started",
		"max_memory_mb", m.maxMemoryMB,
		"max_workers", m.maxWorkers,
		"sample_interval", m.sampleInterval,
	)
	return nil
}

// Go runs fn as a tracked worker. It refuses to start the worker when
// the configured worker cap is reached, and recovers panics so a bad
// client handler cannot take the server down.
func (m *Monitor) Go(ctx context.Context, name string, fn func(context.Context)) error {
	for {
		current := atomic.LoadUint64(&m.workers)
		if int64(current) >= m.maxWorkers {
			return fmt.Errorf("worker cap reached: %d/%d (%s refused)", current, m.maxWorkers, name)
		}
		if atomic.CompareAndSwapUint64(&m.workers, current, current+1) {
			break
		}
	}

	go func() {
		defer atomic.AddUint64(&m.workers, ^uint64(0))
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error(ctx, "Worker panic", fmt.Errorf("panic: %v", r), "worker", name)
			}
		}()
		fn(ctx)
	}()
	return nil
}

// Workers returns the number of tracked worker goroutines.
func (m *Monitor) Workers() int64 {
	return int64(atomic.LoadUint64(&m.workers))
}

// HeapMB returns heap usage from the most recent sample.
func (m *Monitor) HeapMB() int64 {
	return atomic.LoadInt64(&m.heapMB)
}

// SampleMemory reads current heap usage and returns an error when it is
// over the configured ceiling.
func (m *Monitor) SampleMemory() error {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	currentMB := int64(ms.Alloc / 1024 / 1024)
	atomic.StoreInt64(&m.heapMB, currentMB)

	m.mu.Lock()
	m.lastSample = time.Now()
	m.mu.Unlock()

	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("heap %dMB over %dMB ceiling", currentMB, m.maxMemoryMB)
	}
	return nil
}

// sampleTick compares the simulation tick against the previous sample.
func (m *Monitor) sampleTick() {
	if m.tickSource == nil {
		return
	}
	tick := m.tickSource()

	m.mu.Lock()
	m.tickMoved = tick != m.lastTick
	m.lastTick = tick
	m.mu.Unlock()
}

// Stats is a point-in-time view of the monitored budget.
type Stats struct {
	Workers     int64     `json:"workers"`
	MaxWorkers  int64     `json:"max_workers"`
	HeapMB      int64     `json:"heap_mb"`
	MaxMemoryMB int64     `json:"max_memory_mb"`
	SimTick     uint64    `json:"sim_tick"`
	SimStalled  bool      `json:"sim_stalled"`
	LastSample  time.Time `json:"last_sample"`
}

// Stats returns the latest sampled values.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Workers:     m.Workers(),
		MaxWorkers:  m.maxWorkers,
		HeapMB:      m.HeapMB(),
		MaxMemoryMB: m.maxMemoryMB,
		SimTick:     m.lastTick,
		SimStalled:  !m.tickMoved,
		LastSample:  m.lastSample,
	}
}

// Shutdown stops sampling and waits for tracked workers to exit, up to
// the configured shutdown timeout.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.logger.Info(ctx, "Shutting down resource monitor")
	m.cancel()

	deadline, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
	defer cancel()

	select {
	case <-m.done:
	case <-deadline.Done():
		m.logger.Warn(ctx, "Sampling loop did not stop before deadline")
	}

	return m.drainWorkers(deadline)
}

// drainWorkers polls until all tracked workers exit or the context ends.
func (m *Monitor) drainWorkers(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		remaining := m.Workers()
		if remaining == 0 {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("shutdown timeout: %d workers still running", remaining)
		}
	}
}

func (m *Monitor) sampleLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.SampleMemory(); err != nil {
				m.logger.Error(m.ctx, "Memory ceiling exceeded", err)
			}
			m.sampleTick()
			if stats := m.Stats(); stats.SimStalled {
				m.logger.Warn(m.ctx, "Simulation tick has not advanced since last sample",
					"tick", stats.SimTick)
			}
		case <-m.ctx.Done():
			return
		}
	}
}
