// Package schedule provides cron-based scheduling for periodic report
// snapshots.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc is the callback invoked when a scheduled render should run.
type RunFunc func(ctx context.Context) error

// Status reports the state of the scheduled job.
type Status struct {
	Schedule  string    `json:"schedule"`
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run,omitempty"`
	NextRun   time.Time `json:"next_run"`
	LastError string    `json:"last_error,omitempty"`
}

// Runner executes a single job on a cron schedule. Overlapping runs are
// skipped rather than queued: if the previous render is still going when
// the schedule fires, that firing is dropped.
type Runner struct {
	cron   *cron.Cron
	run    RunFunc
	logger *slog.Logger

	mu       sync.RWMutex
	entryID  cron.EntryID
	schedule string
	running  bool
	lastRun  time.Time
	lastErr  error

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

// New creates a Runner for the given callback. Nothing executes until
// Start.
func New(run RunFunc) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
		))),
		run:    run,
		logger: slog.Default(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// WithLogger sets the logger for the runner.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	r.logger = logger
	return r
}

// SetSchedule installs the cron expression, replacing any previous one.
// Returns an error if the expression is invalid.
func (r *Runner) SetSchedule(expr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule != "" {
		r.cron.Remove(r.entryID)
	}

	entryID, err := r.cron.AddFunc(expr, func() {
		r.mu.Lock()
		if r.stopped || r.running {
			r.mu.Unlock()
			return
		}
		r.running = true
		r.wg.Add(1)
		r.mu.Unlock()
		r.execute()
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	r.entryID = entryID
	r.schedule = expr
	r.logger.Info("scheduled report",
		"schedule", expr,
		"next_run", r.cron.Entry(entryID).Next)
	return nil
}

// Start begins executing the schedule.
func (r *Runner) Start() {
	r.mu.Lock()
	r.stopped = false
	r.mu.Unlock()
	r.cron.Start()
}

// Trigger runs the job immediately, outside the schedule. Returns an
// error if a run is already in progress or the runner has been stopped.
func (r *Runner) Trigger() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return fmt.Errorf("runner is stopped")
	}
	if r.running {
		return fmt.Errorf("render already running")
	}

	r.running = true
	r.wg.Add(1)
	go r.execute()
	return nil
}

// Stop cancels the schedule and any in-flight run, and returns a context
// that is done once all work has drained.
func (r *Runner) Stop() context.Context {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	cronCtx := r.cron.Stop()
	r.cancel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronCtx.Done()
		r.wg.Wait()
		cancel()
	}()
	return ctx
}

// Status returns the current job state.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Status{
		Schedule: r.schedule,
		Running:  r.running,
		LastRun:  r.lastRun,
	}
	if r.schedule != "" {
		s.NextRun = r.cron.Entry(r.entryID).Next
	}
	if r.lastErr != nil {
		s.LastError = r.lastErr.Error()
	}
	return s
}

// execute runs the job. The caller must have set running and bumped the
// wait group.
func (r *Runner) execute() {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	err := r.run(r.ctx)

	r.mu.Lock()
	r.lastErr = err
	if err != nil {
		r.logger.Error("scheduled render failed",
			"duration", time.Since(start),
			"error", err)
	} else {
		r.lastRun = time.Now()
		r.logger.Info("scheduled render completed",
			"duration", time.Since(start))
	}
	r.mu.Unlock()
}

// ValidateExpr validates a cron expression without scheduling anything.
func ValidateExpr(expr string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
