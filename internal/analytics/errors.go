package analytics

import (
	"errors"
	"fmt"
)

// TransientError marks a datastore or cache failure. The run that hit it is
// abandoned without writing anything; the next scheduled tick retries the
// next window naturally, so a single missed window is an accepted data gap.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
