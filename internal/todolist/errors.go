package todolist

import (
	"errors"
	"fmt"
)

// Op names the store request a failure came from.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
)

// ErrRejected marks a store response that reported success=false without raising an error.
var ErrRejected = errors.New("store rejected the request")

// Failure is what the controller reports when a request does not succeed.
// Local state is never modified by a failed request.
type Failure struct {
	Op  Op
	ID  string // item id for updates
	Err error
}

func (f *Failure) Error() string {
	if f.ID != "" {
		return fmt.Sprintf("%s %s: %v", f.Op, f.ID, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Rejected reports whether the failure was a store rejection rather than a raised error.
func (f *Failure) Rejected() bool { return errors.Is(f.Err, ErrRejected) }

func rejection(msg string) error {
	if msg == "" {
		return ErrRejected
	}
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}
