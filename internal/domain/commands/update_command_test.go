//go:build unit

package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/domain/entities"
	testdoubles "github.com/hostforge/gamehostd/test"
	"github.com/hostforge/gamehostd/test/domain/entitybuilders"
)

const (
	oldRevision = "1111111111111111111111111111111111111111"
	newRevision = "2222222222222222222222222222222222222222"
)

func newInstance(t *testing.T, cfg entities.RepoConfig) *entities.Instance {
	t.Helper()
	return &entities.Instance{
		Name:       "valheim-main",
		Path:       t.TempDir(),
		RepoConfig: cfg,
	}
}

func TestUpdateCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should merge, run tasks, and reconcile on the happy path", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		cfg := entitybuilders.NewRepoConfigBuilder().
			WithTasks(entitybuilders.NewTaskSpecBuilder().WithName("ok").WithCommand("true").BuildTaskSpec()).
			WithStaticDirectories("data/saves").
			WithPathsToStage("CHANGELOG.md").
			BuildRepoConfig()
		instance := newInstance(t, cfg)

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StateCommitted, report.State)
		assert.Equal(t, oldRevision, report.OldRevision)
		assert.Equal(t, newRevision, report.NewRevision)
		assert.Empty(t, report.FailedTask)
		require.Len(t, report.TaskResults, 1)
		assert.Equal(t, entities.TaskSucceeded, report.TaskResults[0].Outcome)

		assert.Equal(t, []string{newRevision}, vcs.RealizedRevisions)
		assert.Equal(t, [][]string{{"data/saves"}}, vcs.RealizedExclusions)
		assert.Equal(t, [][]string{{"CHANGELOG.md"}}, vcs.CommittedPaths)
	})

	t.Run("should abort at the first failing task and run nothing after it", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		marker := filepath.Join(t.TempDir(), "third-ran")
		cfg := entitybuilders.NewRepoConfigBuilder().
			WithTasks(
				entitybuilders.NewTaskSpecBuilder().WithName("first").WithCommand("true").BuildTaskSpec(),
				entitybuilders.NewTaskSpecBuilder().WithName("second").WithCommand("false").BuildTaskSpec(),
				entitybuilders.NewTaskSpecBuilder().WithName("third").WithCommand("touch").WithArgs(marker).BuildTaskSpec(),
			).
			BuildRepoConfig()
		instance := newInstance(t, cfg)

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		var failure *entities.TaskFailureError
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, commands.StateAborted, report.State)
		assert.Equal(t, "second", report.FailedTask)
		assert.Len(t, report.TaskResults, 2)

		_, statErr := os.Stat(marker)
		assert.True(t, os.IsNotExist(statErr), "task after the failure must not run")
		assert.Empty(t, vcs.RealizedRevisions, "reconciliation must not run after an abort")
		assert.Empty(t, vcs.CommittedPaths)
	})

	t.Run("should abort on a merge conflict before running any task", func(t *testing.T) {
		t.Parallel()

		// given
		conflict := &entities.MergeConflictError{LocalRevision: oldRevision, RemoteRevision: newRevision}
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeErr: conflict}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		marker := filepath.Join(t.TempDir(), "task-ran")
		cfg := entitybuilders.NewRepoConfigBuilder().
			WithTasks(entitybuilders.NewTaskSpecBuilder().WithCommand("touch").WithArgs(marker).BuildTaskSpec()).
			BuildRepoConfig()
		instance := newInstance(t, cfg)

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		var mergeErr *entities.MergeConflictError
		require.ErrorAs(t, err, &mergeErr)
		assert.Equal(t, commands.StateAborted, report.State)
		assert.Empty(t, report.TaskResults)

		_, statErr := os.Stat(marker)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should resolve the release tag and merge to it", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision, Tag: "v2.1.0"}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		instance := newInstance(t, entities.RepoConfig{})

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{ToRelease: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StateCommitted, report.State)
		assert.Equal(t, []string{"v2.1.0"}, vcs.MergeTargets)
	})

	t.Run("should not merge on a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		instance := newInstance(t, entities.RepoConfig{})

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{DryRun: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StateIdle, report.State)
		assert.Empty(t, vcs.MergeTargets)
		assert.Empty(t, vcs.RealizedRevisions)
	})

	t.Run("should skip staging when no paths are configured", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		instance := newInstance(t, entities.RepoConfig{})

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StateCommitted, report.State)
		assert.Empty(t, vcs.CommittedPaths)
	})

	t.Run("should commit even when the changelog script fails", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		cfg := entitybuilders.NewRepoConfigBuilder().
			WithChangelog("/nonexistent/changelog.py", "--format markdown").
			BuildRepoConfig()
		instance := newInstance(t, cfg)

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StateCommitted, report.State)
	})

	t.Run("should pass old and new revisions to the changelog script", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{HeadRev: oldRevision, MergeRev: newRevision}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		script := filepath.Join(t.TempDir(), "changelog.sh")
		require.NoError(t, os.WriteFile(
			script,
			[]byte("#!/bin/sh\necho \"$1 $2\" > changelog-args\n"),
			0o755,
		))
		cfg := entitybuilders.NewRepoConfigBuilder().
			WithChangelog(script, "").
			BuildRepoConfig()
		instance := newInstance(t, cfg)

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StateCommitted, report.State)

		data, readErr := os.ReadFile(filepath.Join(instance.Path, "changelog-args"))
		require.NoError(t, readErr)
		assert.Equal(t, oldRevision+" "+newRevision+"\n", string(data))
	})

	t.Run("should abort when reconciliation fails", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := &testdoubles.SpyVersionControl{
			HeadRev:    oldRevision,
			MergeRev:   newRevision,
			RealizeErr: os.ErrPermission,
		}
		command := commands.NewUpdateCommand(vcs, commands.NewTaskRunner())
		instance := newInstance(t, entities.RepoConfig{})

		// when
		report, err := command.Execute(context.Background(), instance, commands.UpdateOptions{})

		// then
		require.Error(t, err)
		assert.Equal(t, commands.StateAborted, report.State)
	})
}
