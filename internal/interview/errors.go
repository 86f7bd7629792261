package interview

import (
	"errors"
	"fmt"
)

// ErrBusy indicates a completion request is already in flight for this
// session. At most one remote call runs per conversation at a time.
var ErrBusy = errors.New("interview: a request is already in flight")

// ErrFinished indicates the session already asked its full round of questions.
var ErrFinished = errors.New("interview: session is finished")

// RemoteError wraps a failed completion call. The session state is left
// unchanged, so the caller can simply resend the same input.
type RemoteError struct {
	Operation string
	Cause     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("interview %s failed: %v", e.Operation, e.Cause)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}
