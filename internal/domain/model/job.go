// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/teesheet/internal/domain/scheduler"
)

// JobStatus is the service-side lifecycle of a scheduling request.
type JobStatus string

// Job statuses.
const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Finished reports whether the job will not change anymore.
func (s JobStatus) Finished() bool {
	return s == JobDone || s == JobFailed
}

// Request is a scheduling request as submitted by a client.
type Request struct {
	RequestID string   // client-chosen idempotency key
	Golfers   []string // roster ids in roster order
	GroupSize int
	Days      int
	Seed      *int64 // nil selects the service default
	Strict    bool   // reject rosters that do not divide evenly
}

// Job tracks one Request through the queue, the worker pool and the store.
type Job struct {
	ID      string
	Request Request
	Seed    int64
	Status  JobStatus

	// Populated once the job finishes.
	State     scheduler.State
	Days      []scheduler.Day
	Conflicts []scheduler.Conflict
	Objective int
	Error     string

	// Progress is the number of committed days while running.
	Progress int

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// Clone returns a deep copy safe to hand to other goroutines.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	out := *j
	out.Request.Golfers = append([]string(nil), j.Request.Golfers...)
	if j.Request.Seed != nil {
		seed := *j.Request.Seed
		out.Request.Seed = &seed
	}
	out.Days = make([]scheduler.Day, len(j.Days))
	for i, d := range j.Days {
		out.Days[i] = d
		out.Days[i].Groups = make([][]string, len(d.Groups))
		for gi, g := range d.Groups {
			out.Days[i].Groups[gi] = append([]string(nil), g...)
		}
	}
	out.Conflicts = append([]scheduler.Conflict(nil), j.Conflicts...)
	return &out
}
