package campus

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMap wraps every build-time failure. A graph is never returned alongside it.
	ErrInvalidMap = errors.New("campus: invalid map")

	// ErrUnknownWaypoint indicates an identifier that is not declared in the map.
	ErrUnknownWaypoint = errors.New("campus: unknown waypoint")

	// ErrEmptyWaypointID indicates a node declared with a blank identifier.
	ErrEmptyWaypointID = errors.New("campus: empty waypoint id")

	// ErrPaddedWaypointID indicates a node id with leading or trailing whitespace.
	ErrPaddedWaypointID = errors.New("campus: waypoint id has surrounding whitespace")

	// ErrInvalidWeight indicates a negative, NaN or infinite corridor weight.
	ErrInvalidWeight = errors.New("campus: corridor weight must be a finite non-negative number")
)

// QueryError reports a path query rejected before any search ran.
type QueryError struct {
	Field string // "origin" or "destination"
	ID    string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.ID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
