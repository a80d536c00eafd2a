// Package poll provides interval-based background refresh for resource
// listings. Each resource polls on its own interval; a tick that lands
// while the previous refresh is still running is skipped rather than
// queued.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/veloxpay/payops/internal/admin"
)

// RefreshFunc is the callback invoked when a resource is due for refresh.
type RefreshFunc func(ctx context.Context, r admin.Resource) error

// ResourceStatus reports one resource's polling state.
type ResourceStatus struct {
	Resource  admin.Resource `json:"resource"`
	Running   bool           `json:"running"`
	Interval  time.Duration  `json:"interval"`
	LastRun   time.Time      `json:"last_run,omitempty"`
	NextRun   time.Time      `json:"next_run"`
	LastError string         `json:"last_error,omitempty"`
}

// Manager schedules per-resource refresh jobs.
type Manager struct {
	cron    *cron.Cron
	refresh RefreshFunc
	logger  *slog.Logger

	mu        sync.RWMutex
	jobs      map[admin.Resource]cron.EntryID
	intervals map[admin.Resource]time.Duration
	running   map[admin.Resource]bool
	lastRun   map[admin.Resource]time.Time
	lastErr   map[admin.Resource]error

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// New creates a manager with the given refresh callback.
func New(refresh RefreshFunc) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cron:      cron.New(),
		refresh:   refresh,
		logger:    slog.Default(),
		jobs:      make(map[admin.Resource]cron.EntryID),
		intervals: make(map[admin.Resource]time.Duration),
		running:   make(map[admin.Resource]bool),
		lastRun:   make(map[admin.Resource]time.Time),
		lastErr:   make(map[admin.Resource]error),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// WithLogger sets the logger for the manager.
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// Add schedules r to refresh every interval. An interval of zero
// disables polling for r. Re-adding replaces the existing schedule.
func (m *Manager) Add(r admin.Resource, interval time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entryID, exists := m.jobs[r]; exists {
		m.cron.Remove(entryID)
		delete(m.jobs, r)
		delete(m.intervals, r)
	}

	if interval <= 0 {
		m.logger.Info("polling disabled", "resource", string(r))
		return nil
	}
	if interval < time.Second {
		return fmt.Errorf("poll interval for %s too short: %s", r, interval)
	}

	entryID, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		m.mu.Lock()
		if m.stopped || m.running[r] {
			m.mu.Unlock()
			return
		}
		m.running[r] = true
		m.wg.Add(1)
		m.mu.Unlock()
		m.run(r)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", r, err)
	}

	m.jobs[r] = entryID
	m.intervals[r] = interval
	m.logger.Info("scheduled refresh",
		"resource", string(r),
		"interval", interval)
	return nil
}

// Start begins executing scheduled refreshes.
func (m *Manager) Start() {
	m.mu.Lock()
	m.started = true
	m.stopped = false
	m.mu.Unlock()

	m.cron.Start()
	m.logger.Info("poll manager started", "jobs", len(m.jobs))
}

// IsRunning returns true between Start and Stop.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started && !m.stopped
}

// Stop halts scheduling, cancels in-flight refreshes, and returns a
// context that is done once all work has finished.
func (m *Manager) Stop() context.Context {
	m.logger.Info("poll manager stopping")

	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	cronCtx := m.cron.Stop()
	m.cancel()

	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		m.wg.Wait()
		close(done)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-done
		cancel()
	}()
	return ctx
}

// run executes one refresh. The caller must have called wg.Add(1) and
// set running[r] = true.
func (m *Manager) run(r admin.Resource) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		m.running[r] = false
		m.mu.Unlock()
	}()

	start := time.Now()
	err := m.refresh(m.ctx, r)

	m.mu.Lock()
	if err != nil {
		m.lastErr[r] = err
		m.logger.Error("refresh failed",
			"resource", string(r),
			"duration", time.Since(start),
			"error", err)
	} else {
		m.lastRun[r] = time.Now()
		m.lastErr[r] = nil
		m.logger.Debug("refresh completed",
			"resource", string(r),
			"duration", time.Since(start))
	}
	m.mu.Unlock()
}

// IsScheduled returns true if r has an active schedule.
func (m *Manager) IsScheduled(r admin.Resource) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.jobs[r]
	return exists
}

// Trigger refreshes r immediately, outside its schedule. It fails if a
// refresh is already running, r is not scheduled, or the manager has
// been stopped.
func (m *Manager) Trigger(r admin.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return fmt.Errorf("poll manager is stopped")
	}
	if _, exists := m.jobs[r]; !exists {
		return fmt.Errorf("resource %s is not scheduled", r)
	}
	if m.running[r] {
		return fmt.Errorf("refresh already running for %s", r)
	}

	m.running[r] = true
	m.wg.Add(1)
	go m.run(r)
	return nil
}

// Status returns the polling state of all scheduled resources in
// panel order.
func (m *Manager) Status() []ResourceStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var statuses []ResourceStatus
	for _, r := range admin.Resources {
		entryID, exists := m.jobs[r]
		if !exists {
			continue
		}
		entry := m.cron.Entry(entryID)
		status := ResourceStatus{
			Resource: r,
			Running:  m.running[r],
			Interval: m.intervals[r],
			LastRun:  m.lastRun[r],
			NextRun:  entry.Next,
		}
		if err := m.lastErr[r]; err != nil {
			status.LastError = err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
