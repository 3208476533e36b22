package seatsync

import (
	"errors"
	"fmt"

	"crewboard/internal/domain"
)

// RemoteWriteError wraps any failure of a remote write. The local change
// that prompted the write has already been rolled back when it is returned.
type RemoteWriteError struct {
	Op   domain.Field
	Seat domain.SeatRole
	Err  error
}

func (e *RemoteWriteError) Error() string {
	if e.Op == domain.FieldOutingStatus {
		return fmt.Sprintf("remote %s write failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote %s write for %s failed: %v", e.Op, e.Seat.Label(), e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// Retryable is false when the remote store rejected the write because its
// state no longer matches ours. Callers should re-read instead of retrying.
func (e *RemoteWriteError) Retryable() bool {
	var pErr *domain.PreconditionError
	var vErr *domain.ValidationError
	return !errors.As(e.Err, &pErr) && !errors.As(e.Err, &vErr)
}

type WarningKind string

const (
	// WarningDerivedWrite: the member change stuck but the status reset
	// did not; the status was rolled back locally.
	WarningDerivedWrite WarningKind = "derived_write_failed"
	// WarningSoftConstraint: the member already holds another seat on
	// the same outing.
	WarningSoftConstraint WarningKind = "member_in_other_seat"
)

// Warning is a non-fatal outcome reported alongside a successful Apply.
type Warning struct {
	Kind    WarningKind
	Seat    domain.SeatRole
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %v", w.Message, w.Err)
	}
	return w.Message
}
