package textio

import "errors"

// Sentinel kinds for text format errors.
var (
	ErrMalformedInstance = errors.New("malformed instance")
	ErrMalformedRoster   = errors.New("malformed roster file")
	ErrMalformedSolution = errors.New("malformed solution")
)
