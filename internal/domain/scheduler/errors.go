package scheduler

import "errors"

// Sentinel kinds for scheduler errors.
var (
	ErrAlreadyRun = errors.New("scheduler already run")
	ErrNilRoster  = errors.New("scheduler needs a roster")
)
