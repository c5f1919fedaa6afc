package build

import (
	"errors"
	"fmt"
)

// IncompatibilityReason explains why an item cannot join a build.
type IncompatibilityReason string

const (
	CapacityExceeded IncompatibilityReason = "CapacityExceeded"
	Duplicate        IncompatibilityReason = "Duplicate"
	BootsConflict    IncompatibilityReason = "BootsConflict"
	UniqueConflict   IncompatibilityReason = "UniqueConflict"
)

// Message is the user-facing text for the reason.
func (r IncompatibilityReason) Message() string {
	switch r {
	case CapacityExceeded:
		return "a build holds at most 6 items"
	case Duplicate:
		return "item already added"
	case BootsConflict:
		return "a build may contain only one pair of boots"
	case UniqueConflict:
		return "conflicts with a unique item already in the build"
	}
	return string(r)
}

// IncompatibilityError is returned when an add violates a build invariant.
type IncompatibilityError struct {
	Reason    IncompatibilityReason
	ItemID    string
	Conflicts string
}

func (e *IncompatibilityError) Error() string {
	if e.Conflicts != "" {
		return fmt.Sprintf("cannot add item %s: %s (conflicts with %s)", e.ItemID, e.Reason, e.Conflicts)
	}
	return fmt.Sprintf("cannot add item %s: %s", e.ItemID, e.Reason)
}

// Is matches any IncompatibilityError with the same reason, so callers can
// write errors.Is(err, &IncompatibilityError{Reason: BootsConflict}).
func (e *IncompatibilityError) Is(target error) bool {
	t, ok := target.(*IncompatibilityError)
	if !ok {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// ReasonOf extracts the incompatibility reason from err, if any.
func ReasonOf(err error) (IncompatibilityReason, bool) {
	var ie *IncompatibilityError
	if errors.As(err, &ie) {
		return ie.Reason, true
	}
	return "", false
}

var (
	ErrNotReady       = errors.New("build session is not ready")
	ErrLoadFailed     = errors.New("failed to load champion data")
	ErrAuthRequired   = errors.New("authentication required")
	ErrSaveInProgress = errors.New("save already in progress")
	ErrSessionClosed  = errors.New("build session closed")
	ErrAlreadySaved   = errors.New("build already saved")
	ErrEmptyBuild     = errors.New("cannot save an empty build")
	ErrUnknownItem    = errors.New("unknown item")
	ErrInvalidLevel   = errors.New("level must be between 1 and 18")
	ErrInvalidSlot    = errors.New("invalid ability slot")
	ErrInvalidItemID  = errors.New("item ids must be non-empty strings or numbers")
)

// PersistenceError wraps a failed call to the persistence collaborator.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s build: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
