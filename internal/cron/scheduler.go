package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"
)

// RunFunc executes one job and returns the session it ran in.
type RunFunc func(ctx context.Context, job Job) (sessionID string, err error)

// Scheduler fires enabled jobs from a JobStore.
type Scheduler struct {
	store *JobStore
	run   RunFunc

	// Runs are serialised: the session store has a single writer.
	mu sync.Mutex
}

// NewScheduler creates a Scheduler.
func NewScheduler(store *JobStore, run RunFunc) *Scheduler {
	return &Scheduler{store: store, run: run}
}

// Start arms every enabled job and blocks until ctx is cancelled, then waits
// for a running job to finish. armed, if non-nil, is told how many jobs were
// armed before Start blocks.
func (s *Scheduler) Start(ctx context.Context, armed func(n int)) error {
	jobs, err := s.store.Load()
	if err != nil {
		return err
	}

	c := robfigcron.New()
	n := 0
	for _, job := range jobs {
		if !job.Enabled {
			continue
		}
		sched, err := job.Schedule.Compile()
		if err != nil {
			slog.Warn("cron: skipping job with invalid schedule", "job", job.ID, "err", err)
			continue
		}
		jobCopy := job
		c.Schedule(sched, robfigcron.FuncJob(func() { s.Execute(ctx, jobCopy) }))
		n++
	}
	if armed != nil {
		armed(n)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Execute runs job now and records the outcome.
func (s *Scheduler) Execute(ctx context.Context, job Job) JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	slog.Info("cron: executing job", "name", job.Name, "id", job.ID)

	state := JobState{LastRunAtMs: start.UnixMilli(), LastStatus: "ok"}
	sessionID, err := s.run(ctx, job)
	state.LastSessionID = sessionID
	if err != nil {
		state.LastStatus = "error"
		state.LastError = err.Error()
		slog.Error("cron: job failed", "name", job.Name, "err", err)
	}

	if err := s.store.RecordRun(job.ID, state); err != nil {
		slog.Warn("cron: record run failed", "job", job.ID, "err", err)
	}
	return state
}
