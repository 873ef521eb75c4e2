// Package scheduler runs the periodic escalation sweep using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// SweepRunner runs one escalation sweep pass.
type SweepRunner interface {
	Execute(ctx context.Context) (*usecases.SweepResult, error)
}

type EscalationJobOptions struct {
	Interval     time.Duration
	Timeout      time.Duration
	RunOnStartup bool
}

// SchedulerManager owns the gocron scheduler and its jobs.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterEscalationJob sweeps open complaints every opts.Interval. Singleton
// mode reschedules instead of overlapping when a pass runs long; the sweep's
// own lock keeps other instances out.
func (m *SchedulerManager) RegisterEscalationJob(sweep SweepRunner, opts EscalationJobOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = opts.Interval
	}

	jobOpts := []gocron.JobOption{
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("complaint", "escalation"),
		gocron.WithName("escalation-sweep"),
	}
	if opts.RunOnStartup {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(opts.Interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
			defer cancel()
			m.runSweep(ctx, sweep)
		}),
		jobOpts...,
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered escalation job", "interval", opts.Interval, "run_on_startup", opts.RunOnStartup)
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, sweep SweepRunner) {
	m.logger.Debugw("escalation sweep task started")

	startTime := time.Now()

	result, err := sweep.Execute(ctx)
	if err != nil {
		m.logger.Errorw("escalation sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Skipped {
		m.logger.Debugw("escalation sweep skipped, another instance holds the lock")
		return
	}

	m.logger.Infow("escalation sweep finished",
		"scanned", result.Scanned,
		"reprioritized", result.Reprioritized,
		"escalated", result.Escalated,
		"failed", result.Failed,
		"duration", time.Since(startTime),
	)
}

// Start begins running registered jobs. Calling it twice is a no-op.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs and shuts the scheduler down.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
