package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed elevations or missing required
	// configuration, surfaced before any scenario runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingOutputPath marks a required output path that was absent
	// when its consumer needed it.
	ErrMissingOutputPath = errors.New("missing output path")

	// ErrNamingCollision marks two scenarios resolving to the same temp
	// path. Collisions abort the run rather than silently overwriting one
	// scenario's output with another's.
	ErrNamingCollision = errors.New("temp path collision")
)

// BackendError wraps a failure from an external GIS collaborator with
// enough context to identify which scenario and stage failed.
type BackendError struct {
	Stage    string // e.g. "flood-extent", "impact", "tagging", "concatenate", "spatial-join", "cleanup"
	Scenario string // scenario label, empty for run-level stages
	Err      error
}

func (e *BackendError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s (scenario %s): %v", e.Stage, e.Scenario, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
