package repositories

import (
	"context"

	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// ProcessRepository supervises instance game-server child processes.
type ProcessRepository interface {
	// Start spawns the instance's server process in its working directory
	// and returns a handle for later termination. The process outlives the
	// calling request but not the daemon's supervision.
	Start(ctx context.Context, instance *entities.Instance) (entities.ProcessHandle, error)

	// Attach adopts a server process started by a previous daemon run,
	// identified by the pid recorded in the registry state. It reports
	// false when no such process is alive.
	Attach(pid int) (entities.ProcessHandle, bool)

	// Stop terminates the process behind the handle, escalating from a
	// graceful signal to a forced kill. Stopping an already-dead process is
	// not an error.
	Stop(handle entities.ProcessHandle) error
}
