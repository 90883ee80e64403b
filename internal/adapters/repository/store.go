// Package repository keeps scheduling jobs and their outcomes.
package repository

import (
	"context"

	"github.com/okian/teesheet/internal/domain/model"
)

// Store provides read/write access to jobs. Implementations hand out copies;
// callers never share a *model.Job with the store.
type Store interface {
	// Put adds a new job. Returns ErrDuplicate if the id is taken and ErrFull
	// if no finished job can be evicted to make room.
	Put(ctx context.Context, job *model.Job) error

	// Get returns a copy of the job, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Job, error)

	// Update applies fn to the stored job under the store's lock.
	Update(ctx context.Context, id string, fn func(*model.Job)) error

	// Delete removes a job. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string)

	// List returns up to limit jobs, newest first. A non-empty status keeps
	// only jobs in that status.
	List(ctx context.Context, status model.JobStatus, limit int) []*model.Job

	// Count returns the number of stored jobs.
	Count(ctx context.Context) int
}
