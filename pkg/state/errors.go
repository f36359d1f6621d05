package state

import "errors"

// ErrStoreClosed is returned by operations on a Store that has been closed.
var ErrStoreClosed = errors.New("store closed")
