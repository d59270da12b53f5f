//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/test/domain/entitybuilders"
)

func TestTaskRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("should capture stdout of a successful task", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("echo").
			WithArgs("hello").
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, t.TempDir(), 0)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.TaskSucceeded, result.Outcome)
		assert.Equal(t, "hello\n", result.Stdout)
		assert.Empty(t, result.Stderr)
		assert.Zero(t, result.ExitCode)
	})

	t.Run("should report a non-zero exit as a task failure", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithName("always-fails").
			WithCommand("false").
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, t.TempDir(), 0)

		// then
		var failure *entities.TaskFailureError
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, "always-fails", failure.Task)
		assert.Equal(t, int32(1), failure.ExitCode)
		assert.Equal(t, entities.TaskNonZeroExit, result.Outcome)
		assert.Equal(t, int32(1), result.ExitCode)
	})

	t.Run("should distinguish a timeout from a failing exit", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithName("sleeper").
			WithCommand("sleep").
			WithArgs("30").
			BuildTaskSpec()

		// when
		start := time.Now()
		result, err := runner.Run(context.Background(), task, t.TempDir(), 100*time.Millisecond)

		// then
		var timeout *entities.TaskTimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Equal(t, "sleeper", timeout.Task)
		assert.Equal(t, entities.TaskTimedOut, result.Outcome)
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("should report caller cancellation distinctly from a timeout", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithName("sleeper").
			WithCommand("sleep").
			WithArgs("30").
			BuildTaskSpec()
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		// when
		result, err := runner.Run(ctx, task, t.TempDir(), 20*time.Second)

		// then
		require.ErrorIs(t, err, context.Canceled)
		var timeout *entities.TaskTimeoutError
		assert.False(t, errors.As(err, &timeout))
		assert.Equal(t, entities.TaskCanceled, result.Outcome)
	})

	t.Run("should discard partial output on timeout", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("echo partial; sleep 30").
			AsShell().
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, t.TempDir(), 200*time.Millisecond)

		// then
		require.Error(t, err)
		assert.Empty(t, result.Stdout)
		assert.Empty(t, result.Stderr)
	})

	t.Run("should join command and args for shell tasks", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("echo one").
			WithArgs("two", "three").
			AsShell().
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, t.TempDir(), 0)

		// then
		require.NoError(t, err)
		assert.Equal(t, "one two three\n", result.Stdout)
	})

	t.Run("should support shell features like pipes", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("printf 'b\\na\\n' | sort").
			AsShell().
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, t.TempDir(), 0)

		// then
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", result.Stdout)
	})

	t.Run("should drain large output without deadlocking", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("head -c 1048576 /dev/zero | tr '\\0' 'x'").
			AsShell().
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, t.TempDir(), 30*time.Second)

		// then
		require.NoError(t, err)
		assert.Len(t, result.Stdout, 1<<20)
		assert.True(t, strings.HasPrefix(result.Stdout, "xxxx"))
	})

	t.Run("should run the task in the given working directory", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		workdir := t.TempDir()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("pwd").
			BuildTaskSpec()

		// when
		result, err := runner.Run(context.Background(), task, workdir, 0)

		// then
		require.NoError(t, err)
		assert.Equal(t, workdir, strings.TrimSpace(result.Stdout))
	})

	t.Run("should fail fast when the executable does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		runner := commands.NewTaskRunner()
		task := entitybuilders.NewTaskSpecBuilder().
			WithCommand("definitely-not-a-real-binary-4242").
			BuildTaskSpec()

		// when
		_, err := runner.Run(context.Background(), task, t.TempDir(), 0)

		// then
		require.Error(t, err)
	})
}
