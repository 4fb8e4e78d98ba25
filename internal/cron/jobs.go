// Package cron runs saved prompts on a schedule. Each run is a fresh chat
// session, so its transcript shows up in the session store like any other.
//
// Jobs persist in a JSON file:
//
//	{ "version": 1, "jobs": [ { "id":"…", "name":"…", "enabled":true,
//	    "schedule":{"kind":"cron","expr":"0 9 * * *","tz":"Europe/Paris"},
//	    "payload":{"message":"…","webSearch":false},
//	    "state":{"lastRunAtMs":…,"lastStatus":"ok","lastSessionId":"…"},
//	    "createdAtMs":… } ] }
package cron

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	robfigcron "github.com/robfig/cron/v3"
)

// Schedule kinds.
const (
	KindEvery = "every"
	KindCron  = "cron"
)

var parser = robfigcron.NewParser(
	robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow | robfigcron.Descriptor,
)

type Schedule struct {
	Kind    string `json:"kind"`              // "every" | "cron"
	EveryMs int64  `json:"everyMs,omitempty"` // interval
	Expr    string `json:"expr,omitempty"`    // cron expression
	TZ      string `json:"tz,omitempty"`      // IANA timezone
}

// Compile turns the schedule into a robfig schedule.
func (s Schedule) Compile() (robfigcron.Schedule, error) {
	switch s.Kind {
	case KindEvery:
		if s.EveryMs <= 0 {
			return nil, errors.New("every: interval must be positive")
		}
		return robfigcron.Every(time.Duration(s.EveryMs) * time.Millisecond), nil

	case KindCron:
		sched, err := parser.Parse(s.Expr)
		if err != nil {
			return nil, fmt.Errorf("parse cron expression %q: %w", s.Expr, err)
		}
		if s.TZ == "" {
			return sched, nil
		}
		loc, err := time.LoadLocation(s.TZ)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", s.TZ, err)
		}
		return locSchedule{inner: sched, loc: loc}, nil
	}
	return nil, fmt.Errorf("unknown schedule kind %q", s.Kind)
}

// String renders the schedule for listings.
func (s Schedule) String() string {
	switch s.Kind {
	case KindEvery:
		return "every " + (time.Duration(s.EveryMs) * time.Millisecond).String()
	case KindCron:
		if s.TZ != "" {
			return s.Expr + " (" + s.TZ + ")"
		}
		return s.Expr
	}
	return s.Kind
}

type Payload struct {
	Message   string `json:"message"`
	WebSearch bool   `json:"webSearch"`
}

type JobState struct {
	LastRunAtMs   int64  `json:"lastRunAtMs,omitempty"`
	LastStatus    string `json:"lastStatus,omitempty"`
	LastError     string `json:"lastError,omitempty"`
	LastSessionID string `json:"lastSessionId,omitempty"`
}

type Job struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Enabled     bool     `json:"enabled"`
	Schedule    Schedule `json:"schedule"`
	Payload     Payload  `json:"payload"`
	State       JobState `json:"state"`
	CreatedAtMs int64    `json:"createdAtMs"`
}

// NextRun returns the next fire time after now, or zero for an invalid schedule.
func (j Job) NextRun(now time.Time) time.Time {
	sched, err := j.Schedule.Compile()
	if err != nil {
		return time.Time{}
	}
	return sched.Next(now)
}

type jobFile struct {
	Version int   `json:"version"`
	Jobs    []Job `json:"jobs"`
}

// JobStore reads and writes the jobs file.
type JobStore struct {
	path string
}

// NewJobStore creates a JobStore for path (e.g. ~/.shellchat/cron/jobs.json).
func NewJobStore(path string) *JobStore {
	return &JobStore{path: path}
}

// Load returns all saved jobs. A missing file has no jobs.
func (s *JobStore) Load() ([]Job, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read jobs %s: %w", s.path, err)
	}
	var f jobFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse jobs %s: %w", s.path, err)
	}
	return f.Jobs, nil
}

// Save replaces the saved jobs.
func (s *JobStore) Save(jobs []Job) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cron dir: %w", err)
	}
	if jobs == nil {
		jobs = []Job{}
	}
	data, err := json.MarshalIndent(jobFile{Version: 1, Jobs: jobs}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal jobs: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write jobs %s: %w", s.path, err)
	}
	return nil
}

// Add validates and appends a new enabled job.
func (s *JobStore) Add(name string, sched Schedule, payload Payload) (Job, error) {
	if _, err := sched.Compile(); err != nil {
		return Job{}, err
	}
	jobs, err := s.Load()
	if err != nil {
		return Job{}, err
	}
	job := Job{
		ID:          uuid.NewString()[:8],
		Name:        name,
		Enabled:     true,
		Schedule:    sched,
		Payload:     payload,
		CreatedAtMs: time.Now().UnixMilli(),
	}
	if err := s.Save(append(jobs, job)); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Remove deletes a job, reporting whether it existed.
func (s *JobStore) Remove(id string) (bool, error) {
	return s.update(id, func(jobs []Job, i int) []Job {
		return append(jobs[:i], jobs[i+1:]...)
	})
}

// SetEnabled toggles a job, reporting whether it existed.
func (s *JobStore) SetEnabled(id string, enabled bool) (bool, error) {
	return s.update(id, func(jobs []Job, i int) []Job {
		jobs[i].Enabled = enabled
		return jobs
	})
}

// RecordRun stores the outcome of one run.
func (s *JobStore) RecordRun(id string, state JobState) error {
	_, err := s.update(id, func(jobs []Job, i int) []Job {
		jobs[i].State = state
		return jobs
	})
	return err
}

func (s *JobStore) update(id string, fn func(jobs []Job, i int) []Job) (bool, error) {
	jobs, err := s.Load()
	if err != nil {
		return false, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return true, s.Save(fn(jobs, i))
		}
	}
	return false, nil
}

// locSchedule evaluates a schedule in a fixed location.
type locSchedule struct {
	inner robfigcron.Schedule
	loc   *time.Location
}

func (l locSchedule) Next(t time.Time) time.Time {
	return l.inner.Next(t.In(l.loc))
}
