package pmcdata

import (
	"errors"
	"fmt"
)

// ErrManualStepRequired is returned when the pipeline changed the instance in a way that needs
// an operator to do something by hand before it can be run again.
var ErrManualStepRequired = errors.New("pmcdata: manual step required")

// PreconditionError means the instance lacks content the load test depends on.  Message tells
// the operator how to fix it.
type PreconditionError struct {
	Check   string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("pmcdata: %s: %s", e.Check, e.Message)
}

func preconditionf(check string, format string, a ...any) error {
	return &PreconditionError{Check: check, Message: fmt.Sprintf(format, a...)}
}

type manualStepError struct {
	msg string
}

func (e *manualStepError) Error() string { return e.msg }

func (e *manualStepError) Unwrap() error { return ErrManualStepRequired }
