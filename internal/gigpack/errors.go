// Package gigpack implements the gig pack save transaction: the atomic
// reconciliation of a submitted gig document (header plus five child
// collections) against persisted state, with notification side-effects
// for newly added collaborators.
package gigpack

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when no caller identity is available.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrNotFound is returned when the edit target is missing or not
// managed by the caller.  The two cases are deliberately not
// distinguished so a caller cannot tell foreign gig ids apart from
// unused ones.
var ErrNotFound = errors.New("gig not found")

// StageError tags a failure with the save stage it occurred in
// (header, schedule, materials, packing, setlist, roles, shares) so
// that an aborted transaction is attributable in logs.  The underlying
// error is preserved for errors.Is checks against the repository
// sentinels.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("save stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// stageFail wraps a stage failure; nil errors pass through so call
// sites can wrap unconditionally.
func stageFail(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
