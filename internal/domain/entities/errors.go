package entities

import (
	"errors"
	"fmt"
	"time"
)

// Registry errors, matched with errors.Is at the RPC boundary.
var (
	ErrInstanceNotFound = errors.New("instance not found")
	ErrInstanceExists   = errors.New("instance already registered")
	ErrInstanceEnabled  = errors.New("instance is still enabled")
)

// TaskSchemaError reports a task document missing a mandatory field.
type TaskSchemaError struct {
	Field string
}

func (e *TaskSchemaError) Error() string {
	return fmt.Sprintf("task document is missing required field %q", e.Field)
}

// TaskTimeoutError reports a post-merge task that did not exit before its
// deadline and was forcibly terminated. Partial output collected before
// termination is discarded; only the timeout itself is surfaced.
type TaskTimeoutError struct {
	Task    string
	Timeout time.Duration
}

func (e *TaskTimeoutError) Error() string {
	return fmt.Sprintf("task %q did not finish within %s and was killed", e.Task, e.Timeout)
}

// TaskFailureError reports a post-merge task that exited with a non-zero
// code, carrying the captured output for diagnosis.
type TaskFailureError struct {
	Task     string
	Stdout   string
	Stderr   string
	ExitCode int32
}

func (e *TaskFailureError) Error() string {
	return fmt.Sprintf("task %q exited with code %d: %s", e.Task, e.ExitCode, e.Stderr)
}

// MergeConflictError reports a merge the version-control engine could not
// complete because local and remote histories diverged. The working tree is
// left untouched and inspectable.
type MergeConflictError struct {
	LocalRevision  string
	RemoteRevision string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf(
		"merge conflict: local revision %s has diverged from remote revision %s",
		e.LocalRevision, e.RemoteRevision,
	)
}
