package process

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/domain/repositories"
)

const (
	serverLogName   = "server.log"
	stopGracePeriod = 10 * time.Second
	attachPollEvery = time.Second
)

// Handle wraps one supervised game-server child process.
type Handle struct {
	pid  int
	done chan struct{}
}

// PID returns the child's operating-system process id.
func (h *Handle) PID() int { return h.pid }

// Running reports whether the child has not yet been reaped.
func (h *Handle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// ExecProcessRepository supervises game-server processes via os/exec. The
// child runs in its own session, detached from the daemon's controlling
// terminal, with output appended to a log file in the instance directory.
type ExecProcessRepository struct{}

// NewExecProcessRepository creates a new process repository.
func NewExecProcessRepository() repositories.ProcessRepository {
	return &ExecProcessRepository{}
}

// Start spawns the instance's configured server command in its working
// directory and begins reaping it in the background.
func (it *ExecProcessRepository) Start(
	_ context.Context,
	instance *entities.Instance,
) (entities.ProcessHandle, error) {
	cfg := instance.RepoConfig
	if cfg.ServerCommand == "" {
		return nil, fmt.Errorf("instance %q has no server command configured", instance.Name)
	}

	logPath := filepath.Join(instance.Path, serverLogName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open server log for %q: %w", instance.Name, err)
	}

	cmd := exec.Command(cfg.ServerCommand, cfg.ServerArgs...)
	cmd.Dir = instance.Path
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	// New session: the server survives terminal hangups and a later stop
	// can signal the whole group via the session leader's pgid.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if startErr := cmd.Start(); startErr != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to start server for %q: %w", instance.Name, startErr)
	}

	handle := &Handle{pid: cmd.Process.Pid, done: make(chan struct{})}
	go func() {
		if waitErr := cmd.Wait(); waitErr != nil {
			logger.Debugf("Server process %d for %q exited: %v", handle.pid, instance.Name, waitErr)
		}
		_ = logFile.Close()
		close(handle.done)
	}()

	return handle, nil
}

// Attach adopts a server process left running by a previous daemon run. The
// adopted process is not our child, so liveness is polled instead of reaped.
func (it *ExecProcessRepository) Attach(pid int) (entities.ProcessHandle, bool) {
	if pid <= 0 || syscall.Kill(pid, 0) != nil {
		return nil, false
	}

	handle := &Handle{pid: pid, done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(attachPollEvery)
		defer ticker.Stop()
		for range ticker.C {
			if syscall.Kill(pid, 0) == syscall.ESRCH {
				close(handle.done)
				return
			}
		}
	}()
	return handle, true
}

// Stop terminates the process group behind the handle: SIGTERM first, then
// SIGKILL after the grace period. Stopping an already-dead process is a
// no-op.
func (it *ExecProcessRepository) Stop(handle entities.ProcessHandle) error {
	h, ok := handle.(*Handle)
	if !ok {
		return fmt.Errorf("unexpected process handle type %T", handle)
	}
	if !h.Running() {
		return nil
	}

	if err := syscall.Kill(-h.pid, syscall.SIGTERM); err != nil {
		if err == syscall.ESRCH {
			return nil
		}
		return fmt.Errorf("failed to signal process group %d: %w", h.pid, err)
	}

	select {
	case <-h.done:
		return nil
	case <-time.After(stopGracePeriod):
	}

	logger.Warnf("Process %d ignored SIGTERM, killing", h.pid)
	_ = syscall.Kill(-h.pid, syscall.SIGKILL)
	<-h.done
	return nil
}
