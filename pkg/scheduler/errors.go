package scheduler

import "errors"

// ErrUnknownMode is the fault of a RunOn job started with an invalid Mode.
var ErrUnknownMode = errors.New("unknown scheduling mode")
