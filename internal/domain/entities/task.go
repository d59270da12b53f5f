package entities

// TaskOutcome classifies how a post-merge task execution ended.
type TaskOutcome int

const (
	// TaskSucceeded means the process exited with code zero.
	TaskSucceeded TaskOutcome = iota
	// TaskNonZeroExit means the process ran to completion with a non-zero exit code.
	TaskNonZeroExit
	// TaskTimedOut means the process was forcibly terminated after the deadline.
	TaskTimedOut
	// TaskCanceled means the caller's context ended before the process did.
	TaskCanceled
)

// String returns the human-readable label for the outcome.
func (o TaskOutcome) String() string {
	switch o {
	case TaskSucceeded:
		return "success"
	case TaskNonZeroExit:
		return "non-zero-exit"
	case TaskTimedOut:
		return "timed-out"
	case TaskCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// TaskSpec describes a single post-merge command declared in an instance's
// configuration document. Execution order among tasks is document order.
type TaskSpec struct {
	Name    string   // human label, not required to be unique
	Command string   // executable or shell target
	Args    []string // arguments, in order
	IsShell bool     // interpret Command through a shell instead of executing directly
}

// NewTaskSpec validates and builds a TaskSpec. Every field of the source
// document is mandatory; a missing field is a schema error and the loader
// must skip the task and continue with the remaining ones.
func NewTaskSpec(name, command string, args []string, isShell *bool) (TaskSpec, error) {
	if name == "" {
		return TaskSpec{}, &TaskSchemaError{Field: "name"}
	}
	if command == "" {
		return TaskSpec{}, &TaskSchemaError{Field: "command"}
	}
	if args == nil {
		return TaskSpec{}, &TaskSchemaError{Field: "args"}
	}
	if isShell == nil {
		return TaskSpec{}, &TaskSchemaError{Field: "isShell"}
	}
	return TaskSpec{
		Name:    name,
		Command: command,
		Args:    args,
		IsShell: *isShell,
	}, nil
}

// TaskResult captures one task execution.
type TaskResult struct {
	Stdout   string
	Stderr   string
	ExitCode int32
	Outcome  TaskOutcome
}
