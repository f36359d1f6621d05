package scope

import (
	"errors"
	"fmt"
)

// Common scope errors.
var (
	ErrClosed          = errors.New("scope closed")
	ErrShutdownTimeout = errors.New("shutdown timeout")
)

// FaultError records a panic raised by a job.
type FaultError struct {
	Job   string
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("job %s panicked: %v", e.Job, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
