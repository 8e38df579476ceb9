package domain

import (
	"fmt"
	"strings"
	"time"
)

// Conflict is one allocation overlapping a candidate window
type Conflict struct {
	AllocationID int64
	Kind         AllocationKind
	Window       TimeWindow
	Reason       *string // set for maintenance periods
	IsHold       bool    // placeholder of an active checkout hold
}

// ConflictReport lists every allocation overlapping a candidate window
// on one resource instance. Empty report means the window is free.
type ConflictReport struct {
	ResourceID int64
	Window     TimeWindow
	Conflicts  []Conflict
}

// IsEmpty returns true if nothing overlaps the candidate window
func (r *ConflictReport) IsEmpty() bool {
	return len(r.Conflicts) == 0
}

// HasKind returns true if any conflict is of the given kind
func (r *ConflictReport) HasKind(kind AllocationKind) bool {
	for _, c := range r.Conflicts {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// OnlyExactReservations returns true if the report is non-empty and every
// conflict is a non-hold reservation with exactly the candidate window.
// Such conflicts may be superseded by an administrator re-reservation.
func (r *ConflictReport) OnlyExactReservations() bool {
	if r.IsEmpty() {
		return false
	}
	for _, c := range r.Conflicts {
		if c.Kind != KindReservation || c.IsHold || !c.Window.Equal(r.Window) {
			return false
		}
	}
	return true
}

// ConflictError carries the conflict reports of a rejected request
type ConflictError struct {
	Reports []ConflictReport
}

// NewConflictError builds an error from one or more non-empty reports
func NewConflictError(reports ...ConflictReport) *ConflictError {
	return &ConflictError{Reports: reports}
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0)
	for _, r := range e.Reports {
		for _, c := range r.Conflicts {
			parts = append(parts, fmt.Sprintf("resource=%d %s#%d %s",
				r.ResourceID, c.Kind, c.AllocationID, c.Window))
		}
	}
	return fmt.Sprintf("%s: %s", ErrConflict.Error(), strings.Join(parts, "; "))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// AlreadyHeldError reports a resource under another active hold
type AlreadyHeldError struct {
	ResourceID int64
	ExpiresAt  time.Time
}

func (e *AlreadyHeldError) Error() string {
	return fmt.Sprintf("%s: resource=%d until %s",
		ErrAlreadyHeld.Error(), e.ResourceID, e.ExpiresAt.Format(time.RFC3339))
}

func (e *AlreadyHeldError) Unwrap() error {
	return ErrAlreadyHeld
}
