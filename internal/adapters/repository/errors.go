package repository

import "errors"

// Sentinel kinds for run store errors.
var (
	ErrNotFound  = errors.New("job not found")
	ErrDuplicate = errors.New("job already stored")
	ErrFull      = errors.New("run store full")
)
