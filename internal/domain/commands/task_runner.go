package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// TaskRunner executes one post-merge task as a blocking child process.
//
// It is not safe for concurrent calls sharing a working directory; callers
// hold the instance lock for the duration of a run.
type TaskRunner struct{}

// NewTaskRunner creates a new TaskRunner.
func NewTaskRunner() *TaskRunner {
	return &TaskRunner{}
}

// Run executes the task in workdir and blocks until it exits or the timeout
// elapses. A timeout of zero or less means unbounded. On timeout the whole
// process group is killed and partial output is discarded; only the timeout
// is surfaced. Caller cancellation kills the group the same way but is
// reported as TaskCanceled with the context's error, never as a timeout. A
// non-zero exit returns a TaskFailureError carrying the captured output.
func (it *TaskRunner) Run(
	ctx context.Context,
	task entities.TaskSpec,
	workdir string,
	timeout time.Duration,
) (entities.TaskResult, error) {
	cmd := buildCommand(task)
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Own process group, so a timeout kill reaches shell children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return entities.TaskResult{}, fmt.Errorf("failed to start task %q: %w", task.Name, err)
	}

	// Wait returns only after both output copies complete, so stdout and
	// stderr are fully drained before the exit code is inspected. This is
	// what avoids the pipe-buffer deadlock on chatty tasks.
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case waitErr := <-done:
		return classifyExit(task, &stdout, &stderr, waitErr)

	case <-deadline:
		killProcessGroup(cmd)
		<-done
		return entities.TaskResult{Outcome: entities.TaskTimedOut},
			&entities.TaskTimeoutError{Task: task.Name, Timeout: timeout}

	case <-ctx.Done():
		killProcessGroup(cmd)
		<-done
		return entities.TaskResult{Outcome: entities.TaskCanceled},
			fmt.Errorf("task %q canceled: %w", task.Name, ctx.Err())
	}
}

// buildCommand translates the task into an exec.Cmd. Shell tasks join the
// arguments into a single command line, a separator before each token, and
// hand it to the shell; direct tasks pass the argument vector untouched.
func buildCommand(task entities.TaskSpec) *exec.Cmd {
	if !task.IsShell {
		return exec.Command(task.Command, task.Args...)
	}

	line := task.Command
	for _, arg := range task.Args {
		line += " " + arg
	}
	return exec.Command("/bin/sh", "-c", line)
}

func classifyExit(
	task entities.TaskSpec,
	stdout, stderr *bytes.Buffer,
	waitErr error,
) (entities.TaskResult, error) {
	result := entities.TaskResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Outcome: entities.TaskSucceeded,
	}

	if waitErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = int32(exitErr.ExitCode())
		result.Outcome = entities.TaskNonZeroExit
		return result, &entities.TaskFailureError{
			Task:     task.Name,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			ExitCode: result.ExitCode,
		}
	}

	return entities.TaskResult{}, fmt.Errorf("failed to run task %q: %w", task.Name, waitErr)
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	// Negative pid addresses the whole group created by Setpgid.
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
