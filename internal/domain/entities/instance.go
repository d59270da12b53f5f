package entities

// ProcessHandle references a supervised game-server child process. The
// infrastructure layer owns the concrete type; the registry only needs
// identity and liveness.
type ProcessHandle interface {
	// PID returns the operating-system process id.
	PID() int
	// Running reports whether the child has not yet been reaped.
	Running() bool
}

// Instance is a registered game-server deployment: a working directory under
// version control plus an optional running child process. Mutable state is
// owned by the instance manager, which serializes access per instance.
type Instance struct {
	Name       string // unique registry key, mutable only through rename
	Path       string // working directory, absolute
	Enabled    bool
	RepoConfig RepoConfig
	Process    ProcessHandle // nil while disabled
}

// InstanceRecord is the durable subset of an instance persisted in the
// registry state file across daemon restarts.
type InstanceRecord struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
	PID     int    `yaml:"pid,omitempty"`
}
